// Package generate produces course content with a generative model.
//
// A [Generator] turns a prompt and sampling settings into text. [Gemini] is
// the production implementation on google.golang.org/genai; tests supply a
// [Func].
//
// [Service] builds on a Generator to produce whole courses and markdown
// explanations of modules and topics, caching both and reporting each model
// call through the observability generation hooks:
//
//	gen, err := generate.NewGemini(ctx, apiKey, "")
//	svc := generate.NewService(gen, generate.WithCache(c, nil))
//	crs, err := svc.Course(ctx, "Machine Learning")
//	md, err := svc.Explain(ctx, crs, 3, "Gradient Descent")
//
// Model replies are untrusted: courses go through [course.ParseReply], and
// an empty reply is reported as errors.ErrCodeGenerationEmpty.
package generate
