package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexNumbersAcceptStrings(t *testing.T) {
	var req CreateScholarshipRequest
	body := `{"scholarshipName":"A","universityName":"B","universityWorldRank":"12","tuitionFees":"1500.50","applicationFees":30,"serviceCharge":""}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, FlexInt(12), req.UniversityWorldRank)
	assert.Equal(t, FlexFloat(1500.50), req.TuitionFees)
	assert.Equal(t, FlexFloat(30), req.ApplicationFees)
	assert.Equal(t, FlexFloat(0), req.ServiceCharge)
}

func TestFlexNumbersRejectGarbage(t *testing.T) {
	var req CreateScholarshipRequest
	err := json.Unmarshal([]byte(`{"tuitionFees":"lots"}`), &req)
	assert.Error(t, err)
}

func TestReviewRatingRejectsFractions(t *testing.T) {
	var req CreateReviewRequest
	require.NoError(t, json.Unmarshal([]byte(`{"rating":"4"}`), &req))
	assert.Equal(t, WholeInt(4), req.Rating)

	for _, body := range []string{`{"rating":4.7}`, `{"rating":"4.7"}`, `{"rating":"abc"}`} {
		var bad CreateReviewRequest
		assert.Error(t, json.Unmarshal([]byte(body), &bad), body)
	}

	var update UpdateReviewRequest
	assert.Error(t, json.Unmarshal([]byte(`{"rating":2.5}`), &update))
}

func TestRawFeeKeepsText(t *testing.T) {
	cases := map[string]*string{
		`{"applicationFee":10}`:    strPtr("10"),
		`{"applicationFee":"bad"}`: strPtr("bad"),
		`{"applicationFee":null}`:  nil,
		`{}`:                       nil,
	}
	for body, want := range cases {
		var req CreateApplicationRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, want, req.ApplicationFee.Value, body)
	}
}

func TestParseFee(t *testing.T) {
	fees := []*string{strPtr("10"), strPtr("bad"), strPtr("20"), nil, strPtr(" 2.5 "), strPtr("NaN")}
	var total float64
	for _, fee := range fees {
		total += ParseFee(fee)
	}
	assert.Equal(t, 32.5, total)
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" Moderator ")
	assert.True(t, ok)
	assert.Equal(t, RoleModerator, role)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}

func TestApplicationStatusFinal(t *testing.T) {
	assert.False(t, ApplicationPending.Final())
	assert.True(t, ApplicationApproved.Final())
	assert.True(t, ApplicationRejected.Final())
}

func strPtr(s string) *string { return &s }
