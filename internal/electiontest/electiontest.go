// Package electiontest provides in-memory fakes of the engine's external
// capabilities (ElectionsDataSource, identity.Resolver) for use in tests
// across packages, mirroring how internal/fakechain fakes the blockchain.
package electiontest

import (
	"context"

	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
)

// FakeSource is an ElectionsDataSource backed by a fixed in-memory
// snapshot, optionally keyed by block hash.
type FakeSource struct {
	Latest     datasource.Snapshot
	ByHash     map[datasource.BlockHash]datasource.Snapshot
	FetchErr   error
	FetchCalls int
}

// Fetch implements datasource.ElectionsDataSource.
func (f *FakeSource) Fetch(_ context.Context, blockHash *datasource.BlockHash) (datasource.Snapshot, error) {
	f.FetchCalls++
	if f.FetchErr != nil {
		return datasource.Snapshot{}, f.FetchErr
	}
	if blockHash == nil {
		return f.Latest, nil
	}
	if snap, ok := f.ByHash[*blockHash]; ok {
		return snap, nil
	}
	return datasource.Snapshot{}, errUnknownBlock
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

var errUnknownBlock = fakeError("electiontest: unknown block hash")

// FakeResolver is an identity.Resolver backed by a fixed map.
type FakeResolver struct {
	Names map[election.AccountID]string
}

// DisplayNameOf implements identity.Resolver.
func (f FakeResolver) DisplayNameOf(_ context.Context, who election.AccountID) (string, bool) {
	name, ok := f.Names[who]
	return name, ok
}
