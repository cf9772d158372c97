package examcoach

import "slices"

// ExamConfig is the static configuration of one exam. Weightage holds the
// percentage of MaxMarks attributed to each subject and sums to 100.
type ExamConfig struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Stream    string         `json:"stream"`
	Subjects  []string       `json:"subjects"`
	Weightage map[string]int `json:"weightage"`
	MaxMarks  int            `json:"max_marks"`
}

// Strategy is exam-day advice for one exam.
type Strategy struct {
	AttemptOrder    string   `json:"attempt_order"`
	TimeSplit       string   `json:"time_split"`
	NegativeMarking string   `json:"negative_marking"`
	HighWeightage   []string `json:"high_weightage"`
	Tips            []string `json:"tips"`
}

// Resource is a learning resource suggested next to a study session.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// Catalog holds every static table the exam coach needs. It is built once
// at startup and handed to whoever needs it; nothing mutates it afterwards.
type Catalog struct {
	exams      []ExamConfig
	strategies map[string]Strategy
	chapters   map[string][]string
	resources  map[string][]Resource
}

// NewCatalog builds a catalog from explicit tables.
func NewCatalog(exams []ExamConfig, strategies map[string]Strategy, chapters map[string][]string, resources map[string][]Resource) *Catalog {
	return &Catalog{
		exams:      exams,
		strategies: strategies,
		chapters:   chapters,
		resources:  resources,
	}
}

// Exams returns every configured exam in display order.
func (c *Catalog) Exams() []ExamConfig {
	return slices.Clone(c.exams)
}

// Exam looks up an exam by id.
func (c *Catalog) Exam(id string) (ExamConfig, bool) {
	for _, e := range c.exams {
		if e.ID == id {
			return e, true
		}
	}
	return ExamConfig{}, false
}

// Strategy returns the exam-day strategy for an exam.
func (c *Catalog) Strategy(examID string) (Strategy, bool) {
	s, ok := c.strategies[examID]
	return s, ok
}

// Chapters returns the syllabus chapters of a subject.
func (c *Catalog) Chapters(subject string) []string {
	return slices.Clone(c.chapters[subject])
}

// Resources returns the suggested resources for a subject.
func (c *Catalog) Resources(subject string) []Resource {
	return slices.Clone(c.resources[subject])
}

// DefaultCatalog returns the built-in tables for JEE Main, JEE Advanced,
// EAMCET (MPC and BiPC) and NEET.
func DefaultCatalog() *Catalog {
	mpc := []string{"Physics", "Chemistry", "Mathematics"}
	bipc := []string{"Biology", "Physics", "Chemistry"}

	exams := []ExamConfig{
		{ID: "jee_main", Label: "JEE Main", Stream: "MPC", Subjects: mpc,
			Weightage: map[string]int{"Mathematics": 33, "Physics": 33, "Chemistry": 34}, MaxMarks: 300},
		{ID: "jee_advanced", Label: "JEE Advanced", Stream: "MPC", Subjects: mpc,
			Weightage: map[string]int{"Mathematics": 33, "Physics": 33, "Chemistry": 34}, MaxMarks: 360},
		{ID: "eamcet_mpc", Label: "EAMCET (MPC)", Stream: "MPC", Subjects: mpc,
			Weightage: map[string]int{"Mathematics": 40, "Physics": 30, "Chemistry": 30}, MaxMarks: 160},
		{ID: "eamcet_bipc", Label: "EAMCET (BiPC)", Stream: "BiPC", Subjects: bipc,
			Weightage: map[string]int{"Biology": 50, "Physics": 25, "Chemistry": 25}, MaxMarks: 160},
		{ID: "neet", Label: "NEET", Stream: "BiPC", Subjects: bipc,
			Weightage: map[string]int{"Biology": 50, "Physics": 25, "Chemistry": 25}, MaxMarks: 720},
	}

	return NewCatalog(exams, defaultStrategies(), defaultChapters(), defaultResources())
}

func defaultStrategies() map[string]Strategy {
	return map[string]Strategy{
		"jee_main": {
			AttemptOrder:    "Chemistry → Physics → Mathematics",
			TimeSplit:       "Chemistry: 60 min | Physics: 60 min | Maths: 60 min",
			NegativeMarking: "-1 for every wrong answer. Skip if less than 33% confident.",
			HighWeightage:   []string{"Calculus", "Thermodynamics", "Organic Chemistry"},
			Tips: []string{
				"Attempt all 20 MCQs per subject; integer type has no negative marking.",
				"Mark difficult MCQs and revisit in the last 15 min.",
				"Chemistry is the fastest subject, attempt it first to save time.",
			},
		},
		"jee_advanced": {
			AttemptOrder:    "Paper 1: Physics → Chemistry → Maths | Paper 2: Maths → Chemistry → Physics",
			TimeSplit:       "3 hours per paper, 60 min per subject",
			NegativeMarking: "Varies by question type. Read instructions carefully for each section.",
			HighWeightage:   []string{"Integration", "Electrochemistry", "Mechanics"},
			Tips: []string{
				"Never guess in partial marking sections; the penalty is severe.",
				"Solve paragraph-based questions from your strongest subject first.",
				"Leave 20 minutes at the end for review.",
			},
		},
		"eamcet_mpc": {
			AttemptOrder:    "Mathematics → Physics → Chemistry",
			TimeSplit:       "Maths: 80 min | Physics: 40 min | Chemistry: 40 min",
			NegativeMarking: "No negative marking, attempt all questions.",
			HighWeightage:   []string{"Coordinate Geometry", "Thermodynamics", "Organic Chemistry"},
			Tips: []string{
				"No negative marking, attempt every question.",
				"Mathematics has 80 questions; practice speed extensively.",
				"Use the elimination method for tricky options.",
			},
		},
		"eamcet_bipc": {
			AttemptOrder:    "Biology → Chemistry → Physics",
			TimeSplit:       "Biology: 80 min | Chemistry: 40 min | Physics: 40 min",
			NegativeMarking: "No negative marking, attempt all questions.",
			HighWeightage:   []string{"Human Physiology", "Organic Chemistry", "Optics"},
			Tips: []string{
				"Biology has the most questions, start with it.",
				"Revise NCERT diagrams thoroughly.",
				"Physics formulas need quick recall, keep a formula sheet.",
			},
		},
		"neet": {
			AttemptOrder:    "Biology → Chemistry → Physics",
			TimeSplit:       "Biology: 90 min | Chemistry: 45 min | Physics: 45 min",
			NegativeMarking: "-1 for every wrong answer. Skip if unsure.",
			HighWeightage:   []string{"Human Physiology", "Genetics", "Organic Chemistry"},
			Tips: []string{
				"Biology (Botany + Zoology) carries 360/720 marks, master NCERT.",
				"Physics questions are calculative, don't rush.",
				"Chemistry is scoring, aim for 95%+ in Chemistry.",
			},
		},
	}
}

func defaultChapters() map[string][]string {
	return map[string][]string{
		"Physics": {
			"Physics and Measurement",
			"Kinematics",
			"Laws of Motion",
			"Work, Energy, and Power",
			"Rotational Motion",
			"Gravitation",
			"Properties of Solids and Liquids",
			"Thermodynamics",
			"Kinetic Theory of Gases",
			"Oscillations and Waves",
			"Electrostatics",
			"Current Electricity",
			"Magnetic Effects of Current and Magnetism",
			"Electromagnetic Induction and Alternating Currents",
			"Electromagnetic Waves",
			"Optics",
			"Dual Nature of Matter and Radiation",
			"Atoms and Nuclei",
			"Electronic Devices",
			"Experimental Skills",
		},
		"Chemistry": {
			"Some Basic Concepts in Chemistry",
			"Atomic Structure",
			"Chemical Bonding and Molecular Structure",
			"Chemical Thermodynamics",
			"Solutions",
			"Equilibrium",
			"Redox Reactions",
			"Electrochemistry",
			"Chemical Kinetics",
			"Classification of Elements and Periodicity",
			"p-Block Elements",
			"d- and f-Block Elements",
			"Coordination Compounds",
			"Purification and Characterisation of Organic Compounds",
			"Basic Principles of Organic Chemistry",
			"Hydrocarbons",
			"Organic Compounds Containing Halogens",
			"Organic Compounds Containing Oxygen",
			"Organic Compounds Containing Nitrogen",
			"Biomolecules",
			"Principles Related to Practical Chemistry",
		},
		"Mathematics": {
			"Sets, Relations, and Functions",
			"Complex Numbers and Quadratic Equations",
			"Matrices and Determinants",
			"Permutations and Combinations",
			"Binomial Theorem and its Simple Applications",
			"Sequence and Series",
			"Limit, Continuity, and Differentiability",
			"Integral Calculus",
			"Differential Equations",
			"Coordinate Geometry",
			"Three-Dimensional Geometry",
			"Vector Algebra",
			"Statistics and Probability",
			"Trigonometry",
		},
		"Biology": {
			"Diversity in Living World",
			"Structural Organisation in Animals and Plants",
			"Cell Structure and Function",
			"Plant Physiology",
			"Human Physiology",
			"Reproduction",
			"Genetics and Evolution",
			"Biology and Human Welfare",
			"Biotechnology and Its Applications",
			"Ecology and Environment",
		},
	}
}

func defaultResources() map[string][]Resource {
	return map[string][]Resource{
		"Mathematics": {
			{Title: "Physics Wallah Maths", URL: "https://www.youtube.com/@PhysicsWallah", Type: "YouTube"},
			{Title: "Unacademy JEE Maths", URL: "https://www.youtube.com/@UnacademyJEE", Type: "YouTube"},
		},
		"Physics": {
			{Title: "Physics Wallah", URL: "https://www.youtube.com/@PhysicsWallah", Type: "YouTube"},
			{Title: "IIT-PAL Physics", URL: "https://www.youtube.com/@IITPAL", Type: "YouTube"},
		},
		"Chemistry": {
			{Title: "Physics Wallah Chemistry", URL: "https://www.youtube.com/@PhysicsWallah", Type: "YouTube"},
			{Title: "Unacademy Chemistry", URL: "https://www.youtube.com/@UnacademyJEE", Type: "YouTube"},
		},
		"Biology": {
			{Title: "PW NEET Biology", URL: "https://www.youtube.com/@PWNEET", Type: "YouTube"},
			{Title: "Unacademy NEET Biology", URL: "https://www.youtube.com/@UnacademyNEET", Type: "YouTube"},
			{Title: "Khan Academy Biology", URL: "https://www.youtube.com/@khanacademy", Type: "YouTube"},
		},
	}
}
