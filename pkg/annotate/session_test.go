// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate_test

import (
	"testing"

	"carvel.dev/chartnote/pkg/annotate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRecomputesOnIdentityChange(t *testing.T) {
	session := annotate.NewSession(annotate.Opts{})
	assert.Nil(t, session.Plan())

	tpl := annotate.NewTemplate("a.yaml", []byte(`port: {{ .Values.port }}`))
	session.SetTemplate(tpl)

	plan := session.Plan()
	require.NotNil(t, plan)
	assert.False(t, plan.Lines[0].Spans[1].Default.Found())
	assert.Same(t, plan, session.Plan())
	assert.Equal(t, 1, session.Builds())

	vals := mustValues(t, "port: 80\n")
	session.SetValues(vals)
	plan = session.Plan()
	assert.Equal(t, "80", plan.Lines[0].Spans[1].Default.Text)
	assert.Equal(t, 2, session.Builds())

	session.SetValues(vals)
	session.SetTemplate(tpl)
	assert.Same(t, plan, session.Plan())
	assert.Equal(t, 2, session.Builds())

	// equal content, different instance
	session.SetTemplate(annotate.NewTemplate("a.yaml", []byte(`port: {{ .Values.port }}`)))
	assert.NotSame(t, plan, session.Plan())
	assert.Equal(t, 3, session.Builds())
}
