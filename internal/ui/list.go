package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/artx/internal/transform"
)

var (
	_ list.Item = fieldItem{}
)

// fieldItem wraps [transform.Field] to implement [list.Item].
type fieldItem struct {
	field transform.Field
}

func (i fieldItem) FilterValue() string { return i.field.Path }

func (i fieldItem) Title() string {
	marker := "[ ]"
	if i.field.Selected {
		marker = "[x]"
	}
	return fmt.Sprintf("%s %s", marker, i.field.Path)
}

func (i fieldItem) Description() string {
	desc := i.field.Type
	if i.field.Sample != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.field.Sample)
	}
	if i.field.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.field.Description)
	}
	return desc
}
