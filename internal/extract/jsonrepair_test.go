package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON_ValidPassesThrough(t *testing.T) {
	in := `{"title":"Quiz","questions":[{"content":"q1"}]}`

	out, err := RepairJSON(in)
	require.NoError(t, err)
	assert.JSONEq(t, in, out)
}

func TestRepairJSON_StripsCodeFences(t *testing.T) {
	in := "```json\n{\"title\":\"Quiz\"}\n```"

	out, err := RepairJSON(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Quiz"}`, out)
}

func TestRepairJSON_StripsSurroundingProse(t *testing.T) {
	in := `Here is the test you asked for:

{"title":"Quiz","duration":30}

Let me know if you need changes.`

	out, err := RepairJSON(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Quiz","duration":30}`, out)
}

func TestRepairJSON_MissingClosingBrace(t *testing.T) {
	in := `{"title":"Quiz","questions":[{"content":"q1","marks":2}]`

	out, err := RepairJSON(in)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "Quiz", parsed["title"])
}

func TestRepairJSON_MissingClosingBracketAndBrace(t *testing.T) {
	in := `{"questions":[{"content":"q1"},{"content":"q2"`

	out, err := RepairJSON(in)
	require.NoError(t, err)

	var parsed struct {
		Questions []struct {
			Content string `json:"content"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed.Questions, 2)
	assert.Equal(t, "q2", parsed.Questions[1].Content)
}

func TestRepairJSON_TrailingCommas(t *testing.T) {
	in := `{"title":"Quiz","questions":[{"content":"q1",},],}`

	out, err := RepairJSON(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Quiz","questions":[{"content":"q1"}]}`, out)
}

func TestRepairJSON_DanglingCommaAtTruncation(t *testing.T) {
	in := `{"questions":[{"content":"q1"},`

	out, err := RepairJSON(in)
	require.NoError(t, err)

	var parsed map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(out), &parsed))
}

func TestRepairJSON_UnterminatedString(t *testing.T) {
	in := `{"title":"Quiz`

	out, err := RepairJSON(in)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "Quiz", parsed["title"])
}

func TestRepairJSON_CommasInsideStringsUntouched(t *testing.T) {
	in := `{"tags":"algebra, geometry,"}`

	out, err := RepairJSON(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":"algebra, geometry,"}`, out)
}

func TestRepairJSON_BracketsInsideStringsUntouched(t *testing.T) {
	in := `{"content":"solve f(x) = [x] for x in {1,2}"}`

	out, err := RepairJSON(in)
	require.NoError(t, err)
	assert.JSONEq(t, in, out)
}

func TestRepairJSON_Unrepairable(t *testing.T) {
	cases := []string{
		"",
		"no json here at all",
		"the answer is 42",
		`{"a": }`,
	}

	for _, in := range cases {
		_, err := RepairJSON(in)
		assert.ErrorIs(t, err, ErrUnrepairable, "input: %q", in)
	}
}

func TestRepairJSON_Deterministic(t *testing.T) {
	in := "```\n{\"title\":\"Quiz\",\"questions\":[{\"content\":\"q\",},"

	first, err1 := RepairJSON(in)
	second, err2 := RepairJSON(in)

	assert.Equal(t, err1, err2)
	assert.Equal(t, first, second)
}
