package course

import (
	"slices"
	"strings"
)

// Topic is a named interview topic within a category.
type Topic struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// Category is a group of interview topics shown on the interview page.
type Category struct {
	ID              int     `json:"id" yaml:"id"`
	Title           string  `json:"title" yaml:"title"`
	Count           string  `json:"count,omitempty" yaml:"count,omitempty"`
	Description     string  `json:"description" yaml:"description"`
	LongDescription string  `json:"long_description,omitempty" yaml:"long_description,omitempty"`
	Topics          []Topic `json:"topics" yaml:"topics"`
}

// TopicNames returns the names of the category's topics in order.
func (c Category) TopicNames() []string {
	names := make([]string, len(c.Topics))
	for i, t := range c.Topics {
		names[i] = t.Name
	}
	return names
}

// HasTopic reports whether the category lists a topic with this name,
// ignoring case.
func (c Category) HasTopic(name string) bool {
	return slices.ContainsFunc(c.Topics, func(t Topic) bool {
		return strings.EqualFold(t.Name, name)
	})
}

// Matches reports whether term occurs, case-insensitively, in the title,
// the description or any topic name. An empty term matches everything.
func (c Category) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Title), term) ||
		strings.Contains(strings.ToLower(c.Description), term) {
		return true
	}
	return slices.ContainsFunc(c.Topics, func(t Topic) bool {
		return strings.Contains(strings.ToLower(t.Name), term)
	})
}

// Catalog is an ordered list of interview categories.
type Catalog []Category

// Search returns the categories matching term, in catalog order.
func (cat Catalog) Search(term string) Catalog {
	out := Catalog{}
	for _, c := range cat {
		if c.Matches(term) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the category with the given ID.
func (cat Catalog) Find(id int) (Category, bool) {
	for _, c := range cat {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// DefaultCatalog returns the built-in interview categories.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:              1,
			Title:           "Frontend Development",
			Count:           "180+",
			Description:     "Master frontend concepts, frameworks, and problem-solving techniques",
			LongDescription: "Building interactive user interfaces, mastering frontend libraries like React.js, and implementing design principles for responsive and accessible web applications.",
			Topics: []Topic{
				{"React.js & Hooks", 45},
				{"JavaScript ES6+", 38},
				{"CSS & Responsive Design", 32},
				{"State Management", 35},
				{"Performance Optimization", 30},
			},
		},
		{
			ID:              2,
			Title:           "Backend Development",
			Count:           "220+",
			Description:     "Prepare for server-side programming, APIs, and database questions",
			LongDescription: "Server-side programming, building APIs, database integration, and implementing secure and scalable backend systems with technologies like Node.js and Express.",
			Topics: []Topic{
				{"API Design & Development", 48},
				{"Database Systems", 52},
				{"Authentication & Security", 45},
				{"Node.js & Express", 40},
				{"Server Architecture", 35},
			},
		},
		{
			ID:              3,
			Title:           "DSA in C++",
			Count:           "300+",
			Description:     "Master data structures and algorithms with C++ implementation",
			LongDescription: "Data structures and algorithms with C++ implementations, from basic array manipulation to advanced graph algorithms and dynamic programming.",
			Topics: []Topic{
				{"Arrays & Strings", 65},
				{"Linked Lists", 40},
				{"Trees & Graphs", 55},
				{"Sorting & Searching", 45},
				{"Dynamic Programming", 50},
				{"Recursion & Backtracking", 25},
				{"Greedy Algorithms", 20},
				{"STL Library", 15},
			},
		},
		{
			ID:              4,
			Title:           "System Design",
			Count:           "80+",
			Description:     "Learn how to design scalable systems and tackle architecture questions",
			LongDescription: "Design of large-scale systems: distributed architecture, load balancing, caching and high availability for real-world design interview questions.",
			Topics: []Topic{
				{"Distributed Systems", 20},
				{"Microservices Architecture", 15},
				{"Database Sharding", 12},
				{"Load Balancing", 18},
				{"Caching Strategies", 15},
			},
		},
		{
			ID:              5,
			Title:           "Behavioral Interviews",
			Count:           "150+",
			Description:     "Prepare for soft skill questions and behavioral scenarios",
			LongDescription: "Leadership, communication, teamwork and real-life problem-solving scenarios using the STAR method.",
			Topics: []Topic{
				{"Leadership Questions", 30},
				{"Conflict Resolution", 35},
				{"Project Management", 25},
				{"Team Collaboration", 30},
				{"STAR Method Responses", 30},
			},
		},
		{
			ID:              6,
			Title:           "Language-Specific",
			Count:           "250+",
			Description:     "Deep dive into programming language specifics and best practices",
			LongDescription: "Individual programming languages in depth: syntax, idiomatic usage and performance tuning across Python, Java, Go and more.",
			Topics: []Topic{
				{"Python Development", 60},
				{"Java Programming", 55},
				{"JavaScript Mastery", 50},
				{"Golang Essentials", 45},
				{"C# & .NET Framework", 40},
			},
		},
	}
}
