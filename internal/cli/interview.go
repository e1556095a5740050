package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/interview"
)

// =============================================================================
// Categories
// =============================================================================

// categoriesCommand lists the interview categories, optionally filtered.
func (c *CLI) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories [search]",
		Short: "List interview categories and their topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			cats := course.DefaultCatalog().Search(term)
			if len(cats) == 0 {
				c.printInfo("No categories match %q", term)
				return nil
			}
			for i, cat := range cats {
				if i > 0 {
					c.printNewline()
				}
				fmt.Fprintf(c.out, "%s %s %s\n", StyleDim.Render(strconv.Itoa(cat.ID)), StyleTitle.Render(cat.Title), StyleDim.Render(cat.Count))
				c.printDetail("%s", cat.Description)
				for _, t := range cat.Topics {
					fmt.Fprintf(c.out, "    %s %s\n", t.Name, StyleDim.Render(fmt.Sprintf("(%d)", t.Count)))
				}
			}
			return nil
		},
	}
}

// category parses a category ID argument.
func category(arg string) (course.Category, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return course.Category{}, errs.New(errs.ErrCodeInvalidInput, "invalid category id %q", arg)
	}
	cat, ok := course.DefaultCatalog().Find(id)
	if !ok {
		return course.Category{}, errs.New(errs.ErrCodeCategoryNotFound, "category %d not found", id)
	}
	return cat, nil
}

// =============================================================================
// Questions
// =============================================================================

// questionsOpts holds the command-line flags for the questions command.
type questionsOpts struct {
	topic      string
	difficulty string
	search     string
	solutions  bool
	samples    bool
}

// questionsCommand generates interview questions for a category.
func (c *CLI) questionsCommand() *cobra.Command {
	var opts questionsOpts

	cmd := &cobra.Command{
		Use:   "questions <category-id>",
		Short: "Generate interview questions for a category",
		Example: `  prepdeck questions 3
  prepdeck questions 3 --topic "Linked Lists" --solutions
  prepdeck questions 2 --difficulty hard --search cache`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuestions(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.topic, "topic", "t", "", "generate for one topic of the category")
	cmd.Flags().StringVarP(&opts.difficulty, "difficulty", "d", "", "keep only easy, medium or hard questions")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "keep questions whose title or description match")
	cmd.Flags().BoolVar(&opts.solutions, "solutions", false, "print reference solutions")
	cmd.Flags().BoolVar(&opts.samples, "samples", false, "list the built-in sample questions without calling the model")

	return cmd
}

func (c *CLI) runQuestions(ctx context.Context, arg string, o questionsOpts) error {
	cat, err := category(arg)
	if err != nil {
		return err
	}
	criteria := interview.Criteria{Search: o.search}
	if o.difficulty != "" {
		d := interview.Difficulty(strings.ToLower(o.difficulty))
		if d != interview.Easy && d != interview.Medium && d != interview.Hard {
			return errs.New(errs.ErrCodeInvalidInput, "invalid difficulty %q (easy, medium or hard)", o.difficulty)
		}
		criteria.Difficulty = d
	}
	topics := cat.TopicNames()
	if o.topic != "" {
		if !cat.HasTopic(o.topic) {
			return errs.New(errs.ErrCodeInvalidInput, "category %d has no topic %q", cat.ID, o.topic)
		}
		topics = []string{o.topic}
	}

	var questions []interview.Question
	if o.samples {
		questions = interview.SampleQuestions()
		for i := range questions {
			questions[i].Fallback = false
		}
	} else {
		b, err := c.open(ctx, openOpts{needGenerator: true})
		if err != nil {
			return err
		}
		defer b.Close()

		err = c.spin(ctx, fmt.Sprintf("Generating %s...", plural(len(topics), "question")), func() error {
			var err error
			questions, err = c.newBank(b).Questions(ctx, cat.ID, topics)
			return err
		})
		if err != nil {
			return err
		}
	}

	questions = interview.Filter(questions, criteria)
	if len(questions) == 0 {
		c.printInfo("No questions match")
		return nil
	}
	for i, q := range questions {
		if i > 0 {
			c.printNewline()
		}
		if err := c.printQuestion(q, o.solutions); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) printQuestion(q interview.Question, solution bool) error {
	header := StyleTitle.Render(q.Title) + "  " + renderDifficulty(string(q.Difficulty))
	if q.TimeEstimate != "" {
		header += StyleDim.Render("  " + q.TimeEstimate)
	}
	fmt.Fprintln(c.out, header)
	c.printDetail("%s", q.Topic)
	if len(q.Companies) > 0 {
		c.printDetail("asked at %s", strings.Join(q.Companies, ", "))
	}
	if q.Fallback {
		c.printWarning("Sample question; the model was unavailable")
	}

	source := q.Description
	if solution && q.Solution != "" {
		source += "\n\n**Solution**\n\n```cpp\n" + q.Solution + "\n```\n"
	}
	out, err := c.renderMarkdown(source)
	if err != nil {
		return err
	}
	fmt.Fprint(c.out, out)
	return nil
}

// =============================================================================
// Evaluate
// =============================================================================

// evaluateCommand grades an answer to an interview question.
func (c *CLI) evaluateCommand() *cobra.Command {
	var question, answer string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Grade an answer to an interview question",
		Example: `  prepdeck evaluate -q "What is a goroutine?" -a "A lightweight thread"
  prepdeck evaluate -q "Explain CAP" -a - < answer.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if answer == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read answer: %w", err)
				}
				answer = string(data)
			}
			return c.runEvaluate(cmd.Context(), question, answer)
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "the interview question")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "your answer, or - to read it from stdin")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

func (c *CLI) runEvaluate(ctx context.Context, question, answer string) error {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return errs.New(errs.ErrCodeInvalidInput, "question and answer are required")
	}
	b, err := c.open(ctx, openOpts{noCache: true, needGenerator: true})
	if err != nil {
		return err
	}
	defer b.Close()

	var ev interview.Evaluation
	err = c.spin(ctx, "Evaluating...", func() error {
		var err error
		ev, err = interview.Evaluate(ctx, b.service.Generator(), question, answer)
		return err
	})
	if err != nil {
		return err
	}
	c.printEvaluation(ev)
	return nil
}

func (c *CLI) printEvaluation(ev interview.Evaluation) {
	score := fmt.Sprintf("%d/%d", ev.Score, interview.MaxScore)
	switch {
	case ev.Score >= 8:
		score = StyleSuccess.Render(score)
	case ev.Score >= 5:
		score = StyleWarning.Render(score)
	default:
		score = styleIconError.Render(score)
	}
	c.printKeyValue("Score", score)
	c.printKeyValue("Feedback", ev.Feedback)
	c.printKeyValue("Answer", ev.CorrectAnswer)
	if ev.Fallback {
		c.printWarning("The model was unavailable; this is a placeholder grade")
	}
}

// =============================================================================
// Practice
// =============================================================================

// practiceCommand runs a mock interview on stdin: each question adapts to
// the previous answer and its grade.
func (c *CLI) practiceCommand() *cobra.Command {
	var (
		intro      string
		total      int
		difficulty string
	)

	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Run a mock interview in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if total < 1 || total > 50 {
				return errs.New(errs.ErrCodeInvalidInput, "--questions must be between 1 and 50")
			}
			return c.runPractice(cmd.Context(), cmd.InOrStdin(), intro, total, difficulty)
		},
	}

	cmd.Flags().StringVar(&intro, "intro", "", "a short introduction: role, experience, stack")
	cmd.Flags().IntVarP(&total, "questions", "n", 5, "number of questions")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "medium", "interview difficulty")

	return cmd
}

func (c *CLI) runPractice(ctx context.Context, in io.Reader, intro string, total int, difficulty string) error {
	b, err := c.open(ctx, openOpts{noCache: true, needGenerator: true})
	if err != nil {
		return err
	}
	defer b.Close()
	gen := b.service.Generator()

	if in == os.Stdin {
		c.printInfo("Answer each question and finish with an empty line")
	}
	scanner := bufio.NewScanner(in)

	var previous *interview.Exchange
	sum := 0
	for i := 0; i < total; i++ {
		var q string
		err := c.spin(ctx, "Thinking...", func() error {
			var err error
			q, err = interview.Ask(ctx, gen, intro, i, total, difficulty, previous)
			return err
		})
		if err != nil {
			return err
		}
		c.printNewline()
		fmt.Fprintf(c.out, "%s %s\n", StyleDim.Render(fmt.Sprintf("%d/%d", i+1, total)), StyleTitle.Render(q))

		answer, err := readAnswer(scanner)
		if err != nil {
			return err
		}
		if answer == "" {
			c.printWarning("Skipped")
			previous = &interview.Exchange{Question: q}
			continue
		}

		var ev interview.Evaluation
		err = c.spin(ctx, "Evaluating...", func() error {
			var err error
			ev, err = interview.Evaluate(ctx, gen, q, answer)
			return err
		})
		if err != nil {
			return err
		}
		c.printEvaluation(ev)
		sum += ev.Score
		previous = &interview.Exchange{Question: q, Answer: answer, Score: ev.Score}
	}

	c.printNewline()
	c.printSuccess("Interview finished: %d/%d", sum, total*interview.MaxScore)
	return nil
}

// readAnswer reads lines up to the first empty line or end of input.
func readAnswer(s *bufio.Scanner) (string, error) {
	var lines []string
	for s.Scan() {
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := s.Err(); err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}
