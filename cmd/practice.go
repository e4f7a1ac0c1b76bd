package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/drillbot/internal/quiz"
	"github.com/example/drillbot/internal/session"
	"github.com/example/drillbot/internal/spaced_repetition"
	"github.com/example/drillbot/internal/universe"
)

const practiceChoices = 3

var practiceCmd = &cobra.Command{
	Use:   "practice <domain>",
	Short: "Drill a domain in the terminal",
	Long: `Drill a domain in the terminal until the round is done.
Type the answer, or the number of an option for multiple-choice items.
Type q to stop early.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := domainArg(a, args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		sess, err := session.New(ctx, d, universe.DomainKey(d.Key, learnerID), a.records, session.Options{
			MinSample: a.cfg.SessionMinSample,
		})
		if err != nil {
			return err
		}

		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		return runPractice(ctx, sess, cmd.InOrStdin(), cmd.OutOrStdout(), rnd)
	},
}

func init() {
	addLearnerFlag(practiceCmd)
	rootCmd.AddCommand(practiceCmd)
}

// runPractice asks questions until the session rests, the input ends or
// the learner quits.
func runPractice(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer, rnd *rand.Rand) error {
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "📚 %s (q to quit)\n", sess.Domain.Title)

	for {
		snap := sess.Next()
		if snap.State == session.Resting {
			fmt.Fprintf(out, "\n😴 Well done! Come back at %s.\n", snap.RestUntil.Local().Format("2006-01-02 15:04"))
			return nil
		}

		item := snap.Item
		fmt.Fprintln(out, "\n========================================")
		fmt.Fprint(out, item.Key)
		if item.Pronunciation != "" {
			fmt.Fprintf(out, "  [%s]", item.Pronunciation)
		}
		fmt.Fprintln(out)

		var question quiz.Question
		if sess.Domain.AnswerMode == universe.Choice {
			question = quiz.NewChoiceQuestion(item, sess.Universe(), practiceChoices, rnd)
			for i, option := range question.Options {
				fmt.Fprintf(out, "  %d) %s\n", i+1, option)
			}
		} else {
			question = quiz.NewTypedQuestion(item)
		}

		fmt.Fprint(out, "> ")
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			if err == io.EOF {
				fmt.Fprintln(out)
				printSummary(out, sess.Domain.Title, sess.Summary(), time.Now())
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "q" || input == "quit" {
			printSummary(out, sess.Domain.Title, sess.Summary(), time.Now())
			return nil
		}

		correct := isCorrectInput(question, input)
		rec, err := sess.Answer(ctx, correct)
		if err != nil {
			if rec == nil {
				return err
			}
			fmt.Fprintln(out, "⚠️", err)
		}

		if correct {
			fmt.Fprintf(out, "✅ Correct! Stage %d of %d.\n", rec.ReviewStage+1, spaced_repetition.StageCount)
		} else {
			fmt.Fprintf(out, "❌ The answer is %s. Stage %d of %d.\n", item.Answer, rec.ReviewStage+1, spaced_repetition.StageCount)
		}
	}
}

// isCorrectInput accepts an option number for multiple-choice questions and
// the answer text for any question.
func isCorrectInput(q quiz.Question, input string) bool {
	if len(q.Options) > 0 {
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
			return q.IsCorrectOption(n - 1)
		}
	}
	return quiz.Check(q.Item, input)
}
