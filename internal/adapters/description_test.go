package adapters

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yzgyyang/portcran/internal/types"
)

func TestDescriptionAdapter_Parse(t *testing.T) {
	content := "Package: car\n" +
		"Version: 3.1-0\n" +
		"Title: Companion to Applied Regression\n" +
		"Depends: R (>= 3.5.0), carData (>= 3.0-0)\n" +
		"Imports: abind, MASS, mgcv, nnet, pbkrtest (>= 0.4-4),\n" +
		"        quantreg, grDevices\n" +
		"Description:\n" +
		"  Functions to accompany J. Fox and S. Weisberg,\n" +
		"\tAn R Companion to Applied Regression.\n" +
		"\n" +
		"License: GPL (>= 2)\r\n"

	fields, err := NewDescriptionAdapter().Parse([]byte(content))
	require.NoError(t, err)
	want := []types.DescriptionField{
		{Key: "Package", Value: "car", Line: 1},
		{Key: "Version", Value: "3.1-0", Line: 2},
		{Key: "Title", Value: "Companion to Applied Regression", Line: 3},
		{Key: "Depends", Value: "R (>= 3.5.0), carData (>= 3.0-0)", Line: 4},
		{Key: "Imports", Value: "abind, MASS, mgcv, nnet, pbkrtest (>= 0.4-4), quantreg, grDevices", Line: 5},
		{Key: "Description", Value: "Functions to accompany J. Fox and S. Weisberg, An R Companion to Applied Regression.", Line: 7},
		{Key: "License", Value: "GPL (>= 2)", Line: 11},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
}

func TestDescriptionAdapter_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"leading continuation", "  orphan\nPackage: car\n", "line 1: continuation line before any field"},
		{"missing colon", "Package: car\nVersion 1.0\n", "line 2: expected 'Key: value'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescriptionAdapter().Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
