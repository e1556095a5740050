// Package interview generates, filters and grades interview practice
// questions.
//
// Question generation never fails on bad model output: a reply that cannot
// be decoded, or that lacks a title, description or solution, is replaced
// by a built-in sample question tagged with the requested topic. Only
// context cancellation is returned as an error.
//
//	qs, err := interview.GenerateAll(ctx, gen, category.TopicNames(), 0)
//	hard := interview.Filter(qs, interview.Criteria{Difficulty: interview.Hard})
//	ev, err := interview.Evaluate(ctx, gen, qs[0].Title, answer)
package interview
