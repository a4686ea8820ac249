package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/rbochenek/liberland-vote-scope/internal/electiontest"
	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
)

func acct(b byte) election.AccountID {
	var id election.AccountID
	id[len(id)-1] = b
	return id
}

func TestHandleElectionsLatestReturnsJSON(t *testing.T) {
	a := acct(1)
	voter := acct(10)

	snap := datasource.Snapshot{
		DesiredMembers: 1,
		Candidates:     []datasource.CandidateEntry{{Who: a}},
		Voting: []datasource.VotingRecord{
			{Who: voter, Stake: *uint256.NewInt(10), Votes: []election.AccountID{a}},
		},
	}

	srv := &Server{Source: &electiontest.FakeSource{Latest: snap}}
	req := httptest.NewRequest(http.MethodGet, "/council/elections/latest", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "finalResults")
}

func TestHandleElectionsBadBlockHashReturns400(t *testing.T) {
	srv := &Server{Source: &electiontest.FakeSource{}}
	req := httptest.NewRequest(http.MethodGet, "/council/elections/not-hex", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleElectionsFetchErrorReturns400(t *testing.T) {
	srv := &Server{Source: &electiontest.FakeSource{FetchErr: errFetch}}
	req := httptest.NewRequest(http.MethodGet, "/council/elections/latest", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleElectionsDegenerateElectionReturns400(t *testing.T) {
	a := acct(1)
	snap := datasource.Snapshot{
		DesiredMembers: 1,
		Candidates:     []datasource.CandidateEntry{{Who: a}},
	}

	srv := &Server{Source: &electiontest.FakeSource{Latest: snap}}
	req := httptest.NewRequest(http.MethodGet, "/council/elections/latest", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

var errFetch = httpError("boom")
