package adapters

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/yzgyyang/portcran/internal/ports"
	"github.com/yzgyyang/portcran/internal/types"
)

// DescriptionAdapter parses R package DESCRIPTION files (Debian control
// file syntax).
type DescriptionAdapter struct{}

func NewDescriptionAdapter() DescriptionAdapter {
	return DescriptionAdapter{}
}

func (a DescriptionAdapter) Parse(data []byte) ([]types.DescriptionField, error) {
	var (
		fields  []types.DescriptionField
		current *types.DescriptionField
		value   strings.Builder
	)
	commit := func() {
		if current == nil {
			return
		}
		current.Value = strings.TrimSpace(value.String())
		fields = append(fields, *current)
		current = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.TrimSpace(text) == "":
			continue
		case text[0] == ' ' || text[0] == '\t':
			if current == nil {
				return nil, descriptionError(line, "continuation line before any field")
			}
			if value.Len() > 0 {
				value.WriteString(" ")
			}
			value.WriteString(strings.TrimSpace(text))
		default:
			key, rest, ok := strings.Cut(text, ":")
			if !ok || strings.TrimSpace(key) == "" {
				return nil, descriptionError(line, "expected 'Key: value'")
			}
			commit()
			current = &types.DescriptionField{Key: strings.TrimSpace(key), Line: line}
			value.Reset()
			value.WriteString(strings.TrimSpace(rest))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to read DESCRIPTION").
			WithCause(err)
	}
	commit()
	return fields, nil
}

func descriptionError(line int, msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("malformed DESCRIPTION at line %d: %s", line, msg))
}

var _ ports.DescriptionPort = DescriptionAdapter{}
