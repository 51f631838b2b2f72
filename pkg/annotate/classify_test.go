// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate_test

import (
	"encoding/json"
	"testing"

	"carvel.dev/chartnote/pkg/annotate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	classifier := annotate.NewClassifier(annotate.ClassifierOpts{})

	cases := []struct {
		ident    string
		inString bool
		expected annotate.Classification
	}{
		{".Values", false, annotate.ValuesReference},
		{".Values.hub.service.port", false, annotate.ValuesReference},
		{".ValuesExtra", false, annotate.PlainText},
		{".Release.Name", false, annotate.BuiltInObject},
		{".Release.Unknown", false, annotate.BuiltInObject},
		{".Chart", false, annotate.BuiltInObject},
		{".Capabilities.KubeVersion.Major", false, annotate.BuiltInObject},
		{".name", false, annotate.PlainText},
		{".", false, annotate.PlainText},
		{"$", false, annotate.Variable},
		{"$name", false, annotate.Variable},
		{"$.Values.x", false, annotate.Variable},
		{"if", false, annotate.FlowControl},
		{"else", false, annotate.FlowControl},
		{"end", false, annotate.FlowControl},
		{"range", false, annotate.FlowControl},
		{"define", false, annotate.FlowControl},
		{"template", false, annotate.FlowControl},
		{"block", false, annotate.FlowControl},
		{"If", false, annotate.PlainText},
		{"include", false, annotate.Function},
		{"nindent", false, annotate.Function},
		{"toYaml", false, annotate.Function},
		{"toyaml", false, annotate.PlainText},
		{"4", false, annotate.PlainText},
		{`"chart.labels"`, true, annotate.PlainText},
		{"include", true, annotate.PlainText},
		{".Values.x", true, annotate.PlainText},
		{"", false, annotate.PlainText},
	}

	for _, tc := range cases {
		t.Run(tc.ident, func(t *testing.T) {
			word := annotate.TrimmedWord{Identifier: tc.ident}
			assert.Equal(t, tc.expected, classifier.Classify(word, tc.inString))
			// deterministic
			assert.Equal(t, tc.expected, classifier.Classify(word, tc.inString))
		})
	}
}

func TestClassifyRootScope(t *testing.T) {
	classifier := annotate.NewClassifier(annotate.ClassifierOpts{RootScope: true})

	word := annotate.TrimmedWord{Identifier: "$.Values.a.b"}
	assert.Equal(t, annotate.ValuesReference, classifier.Classify(word, false))
	assert.Equal(t, "a.b", classifier.ValuesPath("$.Values.a.b"))

	word = annotate.TrimmedWord{Identifier: "$.Release.Name"}
	assert.Equal(t, annotate.BuiltInObject, classifier.Classify(word, false))
	assert.Equal(t, ".Release.Name", classifier.BuiltInName("$.Release.Name"))

	word = annotate.TrimmedWord{Identifier: "$root"}
	assert.Equal(t, annotate.Variable, classifier.Classify(word, false))
}

func TestValuesPath(t *testing.T) {
	classifier := annotate.NewClassifier(annotate.ClassifierOpts{})
	assert.Equal(t, "", classifier.ValuesPath(".Values"))
	assert.Equal(t, "hub.ingress.rules", classifier.ValuesPath(".Values.hub.ingress.rules"))
}

func TestClassificationJSON(t *testing.T) {
	bs, err := json.Marshal([]annotate.Classification{annotate.ValuesReference, annotate.FlowControl})
	require.NoError(t, err)
	assert.Equal(t, `["values-reference","flow-control"]`, string(bs))

	var result []annotate.Classification
	require.NoError(t, json.Unmarshal(bs, &result))
	assert.Equal(t, []annotate.Classification{annotate.ValuesReference, annotate.FlowControl}, result)

	err = json.Unmarshal([]byte(`["nope"]`), &result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown classification 'nope'")
}
