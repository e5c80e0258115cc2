package reports

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

//go:embed templates/attempt_report.html
var templateFS embed.FS

var attemptTemplate = template.Must(template.New("attempt_report.html").
	Funcs(template.FuncMap{"date": func(t time.Time) string { return t.Format("January 2, 2006 15:04 MST") }}).
	ParseFS(templateFS, "templates/attempt_report.html"))

// AttemptReport is everything printed on a graded attempt's result sheet.
type AttemptReport struct {
	AttemptID      string
	StudentName    string
	Category       string
	Difficulty     string
	Score          int
	CorrectAnswers int
	Answered       int
	TotalQuestions int
	TimeTaken      int
	CompletedAt    time.Time
	Items          []ReportItem
}

type ReportItem struct {
	Number         int
	QuestionText   string
	SelectedOption string
	CorrectOption  string
	Explanation    string
	IsCorrect      bool
}

// Duration formats TimeTaken as minutes and seconds.
func (r AttemptReport) Duration() string {
	return fmt.Sprintf("%dm %02ds", r.TimeTaken/60, r.TimeTaken%60)
}

func RenderAttemptHTML(r AttemptReport) (string, error) {
	var out bytes.Buffer
	if err := attemptTemplate.Execute(&out, r); err != nil {
		return "", fmt.Errorf("render attempt report: %w", err)
	}
	return out.String(), nil
}

type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer prints HTML to PDF with a headless Chrome per call.
type ChromeRenderer struct {
	Timeout time.Duration
}

func (r ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print attempt report: %w", err)
	}
	return pdf, nil
}
