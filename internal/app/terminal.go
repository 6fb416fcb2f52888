package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gokatarajesh/slicetomeetyou/internal/quiz"
	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

// terminalUI plays the quiz on a line-oriented terminal.
type terminalUI struct {
	scanner *bufio.Scanner
	out     io.Writer
}

var _ quiz.UI = (*terminalUI)(nil)

func newTerminalUI(in io.Reader, out io.Writer) *terminalUI {
	return &terminalUI{scanner: bufio.NewScanner(in), out: out}
}

func (u *terminalUI) ShowQuestion(q quiz.Question) {
	fmt.Fprintf(u.out, "\n%s\n", q.Prompt())
}

func (u *terminalUI) ReadAnswer(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(u.out, "> ")
	if !u.scanner.Scan() {
		if err := u.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return u.scanner.Text(), nil
}

func (u *terminalUI) ShowInvalid(err error) {
	var e *httperrors.Error
	if errors.As(err, &e) && e.Kind == httperrors.KindInputValidation {
		fmt.Fprintln(u.out, e.Message)
		return
	}
	fmt.Fprintln(u.out, httperrors.UserMessage(err))
}

func (u *terminalUI) ShowOutcome(q quiz.Question, rec quiz.QuestionRecord) {
	if rec.Correct {
		fmt.Fprintln(u.out, "Correct!")
	} else {
		fmt.Fprintf(u.out, "Incorrect. The correct answer was %d.\n", q.Answer())
	}
	suffix := ""
	if !rec.Correct {
		suffix = " (+penalty)"
	}
	fmt.Fprintf(u.out, "Time: %.2f sec%s\n", rec.TimeTaken.Seconds(), suffix)
}

// writeResults prints the results screen.
func writeResults(w io.Writer, outcome *quiz.Outcome) {
	s := outcome.Summary
	fmt.Fprintf(w, "\nThis session: %d/%d correct, average %.2f s (fastest %.2f s, slowest %.2f s)\n",
		s.CorrectCount, s.Count, s.AverageEffective.Seconds(), s.Fastest.Seconds(), s.Slowest.Seconds())
	if outcome.Result == nil {
		return
	}
	r := outcome.Result
	fmt.Fprintln(w, "\nYour Stats")
	fmt.Fprintf(w, "  Response Time: %.2f s\n", r.UserAvg)
	fmt.Fprintf(w, "  Answers Submitted: %d\n", r.UserCount)
	fmt.Fprintln(w, "World Stats")
	fmt.Fprintf(w, "  Response Time: %.2f s\n", r.WorldAvg)
	fmt.Fprintf(w, "  Answers Submitted: %d\n", r.WorldCount)
}
