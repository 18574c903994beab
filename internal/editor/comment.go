package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"text/template"

	internalstrings "github.com/amonks/timeclock/internal/strings"
)

// ErrEmptyComment is returned when the edited comment has no content.
var ErrEmptyComment = errors.New("comment is empty")

// CommentData describes the entry being stopped.
type CommentData struct {
	EntryID  string
	TaskName string
	Elapsed  string
	Comment  string
}

const commentPrefix = "#"

var commentTemplate = template.Must(template.New("comment").Parse(`{{ .Comment }}
# Stopping entry {{ .EntryID }}{{ if .TaskName }} ({{ .TaskName }}){{ end }}{{ if .Elapsed }}, running {{ .Elapsed }}{{ end }}.
# Describe the work done. Lines starting with '#' are ignored.
# An empty comment cancels the stop.
`))

// RenderComment renders the template shown in the editor.
func RenderComment(data CommentData) (string, error) {
	var buf bytes.Buffer
	if err := commentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParseComment drops template lines and surrounding blank space.
func ParseComment(content string) (string, error) {
	comment := internalstrings.StripCommentLines(internalstrings.NormalizeNewlines(content), commentPrefix)
	comment = internalstrings.TrimTrailingNewlines(comment)
	if internalstrings.IsBlank(comment) {
		return "", ErrEmptyComment
	}
	return comment, nil
}

// EditComment opens the comment template in the editor and returns the
// resulting comment.
func EditComment(data CommentData) (string, error) {
	content, err := RenderComment(data)
	if err != nil {
		return "", err
	}

	file, err := createCommentTempFile()
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := file.Name()
	defer os.Remove(path)

	_, err = file.WriteString(content)
	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := Edit(path); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return ParseComment(string(edited))
}

func createCommentTempFile() (*os.File, error) {
	return os.CreateTemp("", "tc-comment-*.md")
}
