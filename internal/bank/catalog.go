package bank

import "upsc-trainer/internal/domain"

// Subject describes one entry of the study catalog.
type Subject struct {
	Slug   string
	Name   string
	Topics []string
}

// GS1Subjects is the General Studies Paper 1 catalog.
var GS1Subjects = []Subject{
	{Slug: "polity", Name: "Indian Polity", Topics: []string{"All Topics", "Preamble", "Fundamental Rights", "Parliament", "Judiciary"}},
	{Slug: "modern_history", Name: "Modern India", Topics: []string{"All Topics", "1857 Revolt", "Gandhian Era", "Freedom Struggle"}},
	{Slug: "ancient_history", Name: "Ancient India", Topics: []string{"All Topics", "Indus Valley", "Vedic Age", "Mauryan Empire"}},
	{Slug: "medieval_history", Name: "Medieval India", Topics: []string{"All Topics", "Delhi Sultanate", "Mughal Empire", "Vijayanagara"}},
	{Slug: "art_culture", Name: "Art & Culture", Topics: []string{"All Topics", "Architecture", "Painting", "Dance & Music"}},
	{Slug: "world_geo", Name: "World Geography", Topics: []string{"All Topics", "Geomorphology", "Climatology", "Oceanography"}},
	{Slug: "indian_geo", Name: "Indian Geography", Topics: []string{"All Topics", "Physiography", "Drainage System", "Monsoon"}},
	{Slug: "environment", Name: "Environment", Topics: []string{"All Topics", "Ecology", "Biodiversity", "Climate Change"}},
	{Slug: "economy", Name: "Indian Economy", Topics: []string{"All Topics", "Banking", "Budget", "Agriculture"}},
	{Slug: "science_tech", Name: "Science & Tech", Topics: []string{"All Topics", "Space", "Biotech", "IT & Telecom"}},
	{Slug: "ir", Name: "Intl. Relations", Topics: []string{"All Topics", "India & Neighbors", "Institutions (UN, WTO)", "Treaties"}},
	{Slug: "misc", Name: "Miscellaneous", Topics: []string{"All Topics", "Govt Schemes", "Awards", "Sports"}},
}

// CSATSubjects is the CSAT Paper 2 catalog.
var CSATSubjects = []Subject{
	{Slug: "csat_math", Name: "Mathematics", Topics: []string{"All Topics", "Number System", "Percentage", "Time & Work"}},
	{Slug: "csat_reasoning", Name: "Reasoning", Topics: []string{"All Topics", "Coding-Decoding", "Blood Relations", "Syllogism"}},
	{Slug: "csat_passage", Name: "Passages", Topics: []string{"All Topics", "Inference", "Assumption", "Main Idea"}},
}

// Subjects returns the catalog for a paper.
func Subjects(paper domain.Paper) []Subject {
	if paper == domain.PaperCSAT {
		return CSATSubjects
	}
	return GS1Subjects
}

// SlugForSubject maps a display name to its bank slug, falling back to the
// demo bank for unknown names.
func SlugForSubject(name string) string {
	for _, list := range [][]Subject{GS1Subjects, CSATSubjects} {
		for _, s := range list {
			if s.Name == name {
				return s.Slug
			}
		}
	}
	return "demo"
}

// SubjectByName looks up a catalog entry within a paper.
func SubjectByName(name string, paper domain.Paper) (Subject, bool) {
	for _, s := range Subjects(paper) {
		if s.Name == name {
			return s, true
		}
	}
	return Subject{}, false
}

// DemoQuestions is the built-in fallback used when a bank cannot be loaded or
// turns out empty, so the trainer never starts a broken session for want of data.
func DemoQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:           "101",
			Text:         "Which Article safeguards right to marry?",
			Options:      []string{"Article 19", "Article 21", "Article 25", "Article 29"},
			CorrectIndex: 1,
			Explanation:  "Right to Marry is part of Article 21.",
			Kind:         domain.KindStandard,
			Subject:      "Polity",
			Topic:        "Fundamental Rights",
			Year:         2018,
		},
		{
			ID:           "102",
			Text:         "WTI is associated with:",
			Options:      []string{"Crude Oil", "Bullion", "Rare Earth", "Uranium"},
			CorrectIndex: 0,
			Explanation:  "WTI is a crude oil benchmark.",
			Kind:         domain.KindStandard,
			Subject:      "Economy",
			Topic:        "General",
		},
	}
}
