package parameter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaviDemarqui/workwise-v1/internal/executor"
	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/pkg/response"
)

type fakeReader struct {
	params governance.ParametersSnapshot
	stats  executor.Stats
}

func (f *fakeReader) Parameters() governance.ParametersSnapshot { return f.params }

func (f *fakeReader) Quorum() (governance.QuorumPolicy, uint64) {
	q := governance.QuorumPolicy{Percent: governance.DefaultQuorumPercent}
	return q, q.Threshold(f.stats.ActiveMembers)
}

func (f *fakeReader) MaxVotingPeriod() time.Duration { return 7 * 24 * time.Hour }

func (f *fakeReader) Stats() executor.Stats { return f.stats }

func TestHandler_Get(t *testing.T) {
	reader := &fakeReader{
		params: governance.ParametersSnapshot{
			JoinFee:          100_000_000_000_000,
			StakeRequirement: 5,
			Skills:           []string{"go"},
		},
		stats: executor.Stats{LastSeq: 12, ActiveMembers: 4, Treasury: 400, Proposals: 2},
	}

	rec := httptest.NewRecorder()
	NewHandler(reader).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body response.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	data := body.Data.(map[string]any)

	assert.Equal(t, float64(100_000_000_000_000), data["join_fee"])
	assert.Equal(t, float64(5), data["stake_requirement"])
	assert.Equal(t, []any{}, data["categories"])
	assert.Equal(t, []any{"go"}, data["skills"])
	assert.Equal(t, float64(50), data["quorum_percent"])
	assert.Equal(t, float64(3), data["quorum_threshold"])
	assert.Equal(t, float64(604800), data["max_voting_period"])
	assert.Equal(t, float64(4), data["active_members"])
	assert.Equal(t, float64(400), data["treasury"])
	assert.Equal(t, float64(2), data["proposal_count"])
}
