package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,pwd"`
}

type pageQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func TestToIssuesUsesTagNames(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(signupRequest{Email: "bad", Name: "A", Password: "short"})
	require.Error(t, err)

	issues := ToIssues(err)
	assert.Equal(t, []Issue{
		{Field: "email", Message: "must be a valid email"},
		{Field: "name", Message: "must be at least 2 characters long"},
		{Field: "password", Message: "must be at least 8 characters long"},
	}, issues)
}

func TestToIssuesFormTagsAndNumbers(t *testing.T) {
	Init()

	issues := ToIssues(binding.Validator.ValidateStruct(pageQuery{Limit: 500}))
	assert.Equal(t, []Issue{{Field: "limit", Message: "must be at most 100"}}, issues)
}

func TestToIssuesJSONErrors(t *testing.T) {
	var dst struct {
		Amount float64 `json:"amount"`
	}
	err := json.Unmarshal([]byte(`{"amount":"ten"}`), &dst)
	assert.Equal(t, []Issue{{Field: "amount", Message: "must be of type float64"}}, ToIssues(err))

	err = json.Unmarshal([]byte(`{"amount":`), &dst)
	require.Error(t, err)
	issues := ToIssues(err)
	require.Len(t, issues, 1)
	assert.Equal(t, "payload", issues[0].Field)

	assert.Nil(t, ToIssues(nil))
}
