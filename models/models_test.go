package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParentFCMToken(t *testing.T) {
	assert.Equal(t, "tok", Parent{Meta: map[string]interface{}{"fcm_token": "tok"}}.FCMToken())
	assert.Equal(t, "", Parent{}.FCMToken())
	assert.Equal(t, "", Parent{Meta: map[string]interface{}{"fcm_token": 42}}.FCMToken())
}

func TestChildEmailContacts(t *testing.T) {
	c := Child{ParentContacts: []string{"+91 98450 00000", "mum@example.com", "a@@b", "@x", "dad@home.in"}}
	assert.Equal(t, []string{"mum@example.com", "dad@home.in"}, c.EmailContacts())
}

func TestAnalysisFailed(t *testing.T) {
	assert.True(t, Analysis{Error: "model offline"}.Failed())
	assert.False(t, Analysis{Pipe: []LabelScore{{Label: "NEGATIVE", Score: 0.9}}}.Failed())
}

func TestAnalysisJSONKeepsPipeKey(t *testing.T) {
	cases := []struct {
		analysis Analysis
		want     string
	}{
		{Analysis{}, `{"pipe":[]}`},
		{Analysis{Pipe: []LabelScore{}}, `{"pipe":[]}`},
		{Analysis{Pipe: []LabelScore{{Label: "NEGATIVE", Score: 0.5}}}, `{"pipe":[{"label":"NEGATIVE","score":0.5}]}`},
		{Analysis{Error: "model offline"}, `{"error":"model offline"}`},
	}
	for _, tc := range cases {
		raw, err := json.Marshal(Alert{Analysis: tc.analysis})
		assert.NoError(t, err)
		var alert map[string]json.RawMessage
		assert.NoError(t, json.Unmarshal(raw, &alert))
		assert.JSONEq(t, tc.want, string(alert["analysis"]))
	}
}
