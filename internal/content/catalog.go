// Package content holds the read-only curriculum catalog: the ordered
// shorthand modules, their quiz questions, practice texts and the
// shortform dictionary. The tables are compiled in and never mutated at
// runtime; accessors hand out copies.
package content

// Module is one unit of the shorthand curriculum, identified by a short
// code ("A".."I").
type Module struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PracticeText string `json:"practiceText"`
}

// QuizQuestion is a multiple-choice question attached to a module.
type QuizQuestion struct {
	ID       string   `json:"id"`
	ModuleID string   `json:"moduleId"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// Shortform is a common word with a single abbreviated outline.
type Shortform struct {
	Word    string `json:"word"`
	Outline string `json:"outline"`
}

var modules = []Module{
	{
		ID:           "A",
		Title:        "Straight Downstrokes",
		Description:  "The paired consonants P/B and T/D written as light and heavy straight downstrokes.",
		PracticeText: "Pat paid the debt. Bob bought a boat. Tip the top of the pot.",
	},
	{
		ID:           "B",
		Title:        "Curved Strokes",
		Description:  "F, V and the two TH sounds written as light and heavy curves.",
		PracticeText: "Five of the vans move south. Faith thought the path was safe.",
	},
	{
		ID:           "C",
		Title:        "Horizontal Strokes",
		Description:  "K, G, M and N written along the line of writing.",
		PracticeText: "Make the men come to the game. Name the king of the kingdom.",
	},
	{
		ID:           "D",
		Title:        "First-Place Vowels",
		Description:  "Dots and dashes written at the beginning of the stroke for ah, a, aw and o.",
		PracticeText: "The calm palm lay on the lawn. All the tall walls fall.",
	},
	{
		ID:           "E",
		Title:        "Second- and Third-Place Vowels",
		Description:  "Vowel signs at the middle and end of the stroke, and the rule for position writing.",
		PracticeText: "He meets a team at the beach. The deep sea keeps its secrets.",
	},
	{
		ID:           "F",
		Title:        "S Circles and Loops",
		Description:  "The small circle for S and Z, the large circle for SES, and the ST loop.",
		PracticeText: "Sam sells seats at the best shops. She insists on a fast test.",
	},
	{
		ID:           "G",
		Title:        "Shortforms and Phrasing",
		Description:  "Single-outline forms for the commonest words and how to join them into phrases.",
		PracticeText: "I am sure you will be able to do it. It is to be and it shall be.",
	},
	{
		ID:           "H",
		Title:        "Halving and Doubling",
		Description:  "Halving a stroke to add T or D, doubling a curve to add TR, DR or THER.",
		PracticeText: "The mother and father gathered together. He heard the order rather late.",
	},
	{
		ID:           "I",
		Title:        "Speed Development",
		Description:  "Timed dictation passages and drills for building sustained writing speed.",
		PracticeText: "Dear Sir, thank you for your letter of the fourth. We are pleased to confirm the order.",
	},
}

var quizQuestions = []QuizQuestion{
	{ID: "A-1", ModuleID: "A", Prompt: "A heavy straight downstroke slanting like P represents which sound?", Options: []string{"B", "D", "T", "V"}, Answer: 0},
	{ID: "A-2", ModuleID: "A", Prompt: "T and D differ in an outline only by:", Options: []string{"direction", "thickness", "length", "position"}, Answer: 1},
	{ID: "B-1", ModuleID: "B", Prompt: "The light curve of the F/V pair stands for:", Options: []string{"V", "F", "TH as in 'then'", "S"}, Answer: 1},
	{ID: "B-2", ModuleID: "B", Prompt: "The two TH sounds are distinguished by:", Options: []string{"a dot", "stroke thickness", "a loop", "a tick"}, Answer: 1},
	{ID: "C-1", ModuleID: "C", Prompt: "Which strokes are written horizontally along the line?", Options: []string{"P and B", "F and V", "K and G", "T and D"}, Answer: 2},
	{ID: "C-2", ModuleID: "C", Prompt: "M and N are both written as:", Options: []string{"downstrokes", "horizontal curves", "circles", "upstrokes"}, Answer: 1},
	{ID: "D-1", ModuleID: "D", Prompt: "A first-place vowel sign is written:", Options: []string{"at the start of the stroke", "at the middle of the stroke", "at the end of the stroke", "below the line"}, Answer: 0},
	{ID: "D-2", ModuleID: "D", Prompt: "A heavy dot in first place represents the vowel in:", Options: []string{"pit", "palm", "pet", "put"}, Answer: 1},
	{ID: "E-1", ModuleID: "E", Prompt: "An outline whose first vowel is third-place is written:", Options: []string{"above the line", "on the line", "through the line", "anywhere"}, Answer: 2},
	{ID: "E-2", ModuleID: "E", Prompt: "Second-place vowels are written at:", Options: []string{"the start of the stroke", "the middle of the stroke", "the end of the stroke", "the line itself"}, Answer: 1},
	{ID: "F-1", ModuleID: "F", Prompt: "The small circle added to a stroke represents:", Options: []string{"S or Z", "SES", "ST", "SHUN"}, Answer: 0},
	{ID: "F-2", ModuleID: "F", Prompt: "The ST loop is written as:", Options: []string{"a large circle", "a shallow loop", "a heavy dot", "a halved stroke"}, Answer: 1},
	{ID: "G-1", ModuleID: "G", Prompt: "A shortform is:", Options: []string{"an abbreviated outline for a common word", "a vowel sign", "a punctuation mark", "a speed drill"}, Answer: 0},
	{ID: "G-2", ModuleID: "G", Prompt: "Joining the outlines of several words into one is called:", Options: []string{"halving", "phrasing", "doubling", "position writing"}, Answer: 1},
	{ID: "H-1", ModuleID: "H", Prompt: "Halving a light stroke adds which sound?", Options: []string{"D", "T", "R", "L"}, Answer: 1},
	{ID: "H-2", ModuleID: "H", Prompt: "Doubling a curve adds:", Options: []string{"S", "SHUN", "TR, DR or THER", "ING"}, Answer: 2},
	{ID: "I-1", ModuleID: "I", Prompt: "Dictation speed is conventionally measured in:", Options: []string{"strokes per line", "words per minute", "outlines per page", "minutes per passage"}, Answer: 1},
	{ID: "I-2", ModuleID: "I", Prompt: "The recommended way to build speed is:", Options: []string{"writing larger outlines", "short timed drills repeated daily", "avoiding shortforms", "reading only"}, Answer: 1},
}

var shortforms = []Shortform{
	{Word: "the", Outline: "light slanting tick"},
	{Word: "and", Outline: "light downward tick"},
	{Word: "of", Outline: "light horizontal tick"},
	{Word: "to", Outline: "halved T above the line"},
	{Word: "a", Outline: "heavy dot above the line"},
	{Word: "I", Outline: "small raised circle"},
	{Word: "you", Outline: "upward U hook"},
	{Word: "it", Outline: "halved T on the line"},
	{Word: "is", Outline: "small circle on the line"},
	{Word: "be", Outline: "B stroke alone"},
	{Word: "have", Outline: "V stroke alone"},
	{Word: "which", Outline: "CH stroke alone"},
	{Word: "that", Outline: "heavy halved TH"},
	{Word: "shall", Outline: "SH stroke alone"},
	{Word: "all", Outline: "heavy first-place dash"},
	{Word: "with", Outline: "raised light TH"},
	{Word: "for", Outline: "F stroke alone"},
	{Word: "but", Outline: "halved B"},
	{Word: "dear", Outline: "doubled D"},
	{Word: "year", Outline: "doubled Y curve"},
}

// Modules returns the curriculum in teaching order.
func Modules() []Module {
	return append([]Module(nil), modules...)
}

// ModuleByID looks up a single module.
func ModuleByID(id string) (Module, bool) {
	for _, m := range modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// FirstModuleID is where every new learner starts.
func FirstModuleID() string {
	return modules[0].ID
}

// NextModuleID returns the module following id in teaching order, or false
// when id is the last module or unknown.
func NextModuleID(id string) (string, bool) {
	for i, m := range modules {
		if m.ID == id && i+1 < len(modules) {
			return modules[i+1].ID, true
		}
	}
	return "", false
}

// QuizForModule returns the quiz questions for one module, empty when the
// module is unknown.
func QuizForModule(moduleID string) []QuizQuestion {
	var out []QuizQuestion
	for _, q := range quizQuestions {
		if q.ModuleID == moduleID {
			out = append(out, q)
		}
	}
	return out
}

// Shortforms returns the shortform dictionary.
func Shortforms() []Shortform {
	return append([]Shortform(nil), shortforms...)
}
