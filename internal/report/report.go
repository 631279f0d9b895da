// Package report renders an analysis result for the terminal or a browser.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/commentsense/internal/analysis"
	"github.com/spacesedan/commentsense/internal/sentiment"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"

	NO_COMMENTS = "No comments found for the given video URL."
	WORD_LIMIT  = 20
)

var ErrUnknownFormat = errors.New("unknown report format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatMarkdown, FormatHTML, FormatJSON, FormatYAML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// View is the serialisable shape of one rendered report.
type View struct {
	VideoID        string                `json:"video_id" yaml:"video_id"`
	Description    string                `json:"description" yaml:"description"`
	ViewerAge      int                   `json:"viewer_age" yaml:"viewer_age"`
	AgeBand        string                `json:"age_band" yaml:"age_band"`
	CommentCount   int                   `json:"comment_count" yaml:"comment_count"`
	Positive       float64               `json:"positive" yaml:"positive"`
	Neutral        float64               `json:"neutral" yaml:"neutral"`
	Negative       float64               `json:"negative" yaml:"negative"`
	Compound       float64               `json:"compound" yaml:"compound"`
	PositiveRatio  float64               `json:"positive_ratio" yaml:"positive_ratio"`
	NegativeRatio  float64               `json:"negative_ratio" yaml:"negative_ratio"`
	Recommendation string                `json:"recommendation" yaml:"recommendation"`
	Filter         string                `json:"filter" yaml:"filter"`
	Comments       []string              `json:"comments" yaml:"comments"`
	TopWords       []sentiment.WordCount `json:"top_words,omitempty" yaml:"top_words,omitempty"`
}

func NewView(res *analysis.Result, bucket sentiment.Bucket) (View, error) {
	comments, err := res.Filter(bucket)
	if err != nil {
		return View{}, err
	}

	return View{
		VideoID:        res.VideoID,
		Description:    res.Description,
		ViewerAge:      res.Viewer.Age,
		AgeBand:        string(res.Band),
		CommentCount:   res.Profile.CommentCount,
		Positive:       res.Profile.PositiveSum,
		Neutral:        res.Profile.NeutralSum,
		Negative:       res.Profile.NegativeSum,
		Compound:       res.Profile.CompoundSum,
		PositiveRatio:  res.PositiveRatio,
		NegativeRatio:  res.NegativeRatio,
		Recommendation: string(res.Recommendation),
		Filter:         string(bucket),
		Comments:       comments,
		TopWords:       res.WordFrequencies(WORD_LIMIT),
	}, nil
}

func Render(w io.Writer, res *analysis.Result, format Format, bucket sentiment.Bucket) error {
	view, err := NewView(res, bucket)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(view)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(view))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(view))
		return err
	case FormatText:
		_, err := io.WriteString(w, Text(view))
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func Markdown(v View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Comment sentiment for `%s`\n\n", v.VideoID)
	b.WriteString("## Video Description\n\n")
	b.WriteString(escapeMarkdownBlock(v.Description) + "\n\n")

	if v.CommentCount == 0 {
		b.WriteString(NO_COMMENTS + "\n")
		return b.String()
	}

	b.WriteString("## Sentiment Analysis\n\n")
	b.WriteString("| Sentiment | Total |\n|---|---|\n")
	fmt.Fprintf(&b, "| Positive | %.3f |\n", v.Positive)
	fmt.Fprintf(&b, "| Neutral | %.3f |\n", v.Neutral)
	fmt.Fprintf(&b, "| Negative | %.3f |\n", v.Negative)
	fmt.Fprintf(&b, "| Compound | %.3f |\n\n", v.Compound)
	fmt.Fprintf(&b, "%d comments, positive ratio %.3f, negative ratio %.3f.\n\n", v.CommentCount, v.PositiveRatio, v.NegativeRatio)

	b.WriteString("## Recommendation\n\n")
	fmt.Fprintf(&b, "**%s** (viewer age %d, %s band)\n\n", v.Recommendation, v.ViewerAge, v.AgeBand)

	if len(v.TopWords) > 0 {
		b.WriteString("## Top Words\n\n")
		words := make([]string, len(v.TopWords))
		for i, wc := range v.TopWords {
			words[i] = fmt.Sprintf("%s (%d)", wc.Word, wc.Count)
		}
		b.WriteString(strings.Join(words, ", ") + "\n\n")
	}

	fmt.Fprintf(&b, "## Comments (%s)\n\n", v.Filter)
	for _, c := range v.Comments {
		b.WriteString("- " + escapeMarkdown(c) + "\n")
	}
	return b.String()
}

func HTML(v View) []byte {
	return blackfriday.Run([]byte(Markdown(v)), blackfriday.WithExtensions(blackfriday.CommonExtensions))
}

func Text(v View) string {
	var b strings.Builder

	b.WriteString("Video Description\n")
	b.WriteString(v.Description + "\n\n")

	if v.CommentCount == 0 {
		b.WriteString(NO_COMMENTS + "\n")
		return b.String()
	}

	b.WriteString("Sentiment Analysis\n")
	fmt.Fprintf(&b, "Positive sentiment: %v\n", v.Positive)
	fmt.Fprintf(&b, "Neutral sentiment: %v\n", v.Neutral)
	fmt.Fprintf(&b, "Negative sentiment: %v\n", v.Negative)
	fmt.Fprintf(&b, "Compound sentiment: %v\n\n", v.Compound)

	b.WriteString("Recommendation\n")
	b.WriteString(v.Recommendation + "\n\n")

	fmt.Fprintf(&b, "Comments (%s)\n", v.Filter)
	for _, c := range v.Comments {
		b.WriteString(c + "\n")
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`,
	"[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;", "\n", " ",
)

// escapeMarkdown keeps raw comment text from being interpreted as markup or HTML.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// escapeMarkdownBlock escapes multi-line text as one paragraph per line, so no
// line can open a heading, rule, list or code block.
func escapeMarkdownBlock(s string) string {
	var paragraphs []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paragraphs = append(paragraphs, escapeLineStart(escapeMarkdown(line)))
	}
	return strings.Join(paragraphs, "\n\n")
}

func escapeLineStart(line string) string {
	switch line[0] {
	case '-', '+', '~', '|':
		return `\` + line
	}
	digits := len(line) - len(strings.TrimLeft(line, "0123456789"))
	if digits > 0 && digits < len(line) && (line[digits] == '.' || line[digits] == ')') {
		return line[:digits] + `\` + line[digits:]
	}
	return line
}
