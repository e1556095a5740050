package interview

import "github.com/google/uuid"

var samples = []Question{
	{
		Title:        "Implement a Binary Search Tree",
		Description:  "Create a complete implementation of a binary search tree with insert, delete and search operations.",
		Difficulty:   Medium,
		TimeEstimate: "45 mins",
		Companies:    []string{"Google", "Microsoft"},
		Solution: `type Node struct {
	Value       int
	Left, Right *Node
}

type BST struct{ Root *Node }

func (t *BST) Insert(v int) {
	p := &t.Root
	for *p != nil {
		if v == (*p).Value {
			return
		}
		if v < (*p).Value {
			p = &(*p).Left
		} else {
			p = &(*p).Right
		}
	}
	*p = &Node{Value: v}
}

func (t *BST) Find(v int) *Node {
	n := t.Root
	for n != nil && n.Value != v {
		if v < n.Value {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n
}
`,
		Topic: "Data Structures",
	},
	{
		Title:        "Implement Merge Sort",
		Description:  "Write a function that sorts an array using the merge sort algorithm.",
		Difficulty:   Medium,
		TimeEstimate: "30 mins",
		Companies:    []string{"Amazon", "Facebook"},
		Solution: `func MergeSort(a []int) []int {
	if len(a) <= 1 {
		return a
	}
	mid := len(a) / 2
	return merge(MergeSort(a[:mid]), MergeSort(a[mid:]))
}

func merge(l, r []int) []int {
	out := make([]int, 0, len(l)+len(r))
	i, j := 0, 0
	for i < len(l) && j < len(r) {
		if l[i] < r[j] {
			out = append(out, l[i])
			i++
		} else {
			out = append(out, r[j])
			j++
		}
	}
	out = append(out, l[i:]...)
	return append(out, r[j:]...)
}
`,
		Topic: "Algorithms",
	},
}

// SampleQuestion returns a copy of a built-in question, cycling by index,
// with a fresh ID. A non-empty topic replaces the sample's own topic.
func SampleQuestion(index int, topic string) Question {
	q := samples[wrap(index, len(samples))]
	q.Companies = append([]string(nil), q.Companies...)
	q.ID = uuid.NewString()
	q.Fallback = true
	if topic != "" {
		q.Topic = topic
	}
	return q
}

// SampleQuestions returns every built-in question with its own topic.
func SampleQuestions() []Question {
	out := make([]Question, len(samples))
	for i := range samples {
		out[i] = SampleQuestion(i, "")
	}
	return out
}

var fallbackPrompts = []string{
	"Tell me about your relevant skills and experience.",
	"What technical challenges have you faced in your previous work?",
	"Describe a project you're particularly proud of and why.",
	"How do you approach problem-solving?",
	"What are your strengths and weaknesses?",
	"Where do you see yourself in five years?",
}

// FallbackQuestion returns a generic interviewer question, cycling through
// a fixed list of six by index.
func FallbackQuestion(index int) string {
	return fallbackPrompts[wrap(index, len(fallbackPrompts))]
}

// wrap maps any index, negative ones included, into [0, n).
func wrap(index, n int) int {
	return (index%n + n) % n
}
