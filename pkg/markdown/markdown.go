// Package markdown renders an assembled election result and its trace as a
// human-readable Markdown report, the CLI's presentation boundary.
package markdown

import (
	"fmt"
	"strings"

	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
	"github.com/rbochenek/liberland-vote-scope/pkg/rational"
	"github.com/rbochenek/liberland-vote-scope/pkg/result"
	"github.com/rbochenek/liberland-vote-scope/pkg/trace"
)

// Generate renders the full report: "Before elections", "Phragmen traces",
// then "Election results".
func Generate(snap datasource.Snapshot, res result.ElectionResults, events []trace.Event) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Council election report\n\n")
	fmt.Fprintf(&b, "Block: `%x`\n\n", snap.BlockHash)

	writeInputsSection(&b, snap)
	writeTracesSection(&b, events)
	writeOutcomeSection(&b, res)

	return b.String()
}

func writeInputsSection(b *strings.Builder, snap datasource.Snapshot) {
	fmt.Fprintf(b, "## Before elections\n\n")
	fmt.Fprintf(b, "Desired members: %d, desired runners-up: %d.\n\n", snap.DesiredMembers, snap.DesiredRunnersUp)
	fmt.Fprintf(b, "Elections so far: %d\n\n", snap.ElectionRounds)

	writeCollapsible(b, "Current seat holders", func(b *strings.Builder) {
		fmt.Fprintf(b, "| Account | Role | Stake | Deposit |\n|---|---|---|---|\n")
		for _, m := range snap.Members {
			fmt.Fprintf(b, "| %s | member | %s | %s |\n", m.Who, m.Stake.Dec(), m.Deposit.Dec())
		}
		for _, r := range snap.RunnersUp {
			fmt.Fprintf(b, "| %s | runner-up | %s | %s |\n", r.Who, r.Stake.Dec(), r.Deposit.Dec())
		}
	})

	writeCollapsible(b, "Candidates", func(b *strings.Builder) {
		fmt.Fprintf(b, "| Account | Deposit |\n|---|---|\n")
		for _, c := range snap.Candidates {
			fmt.Fprintf(b, "| %s | %s |\n", c.Who, c.Deposit.Dec())
		}
	})

	writeCollapsible(b, "Voters", func(b *strings.Builder) {
		fmt.Fprintf(b, "| Account | Stake | Approvals |\n|---|---|---|\n")
		for _, v := range snap.Voting {
			fmt.Fprintf(b, "| %s | %s | %s |\n", v.Who, v.Stake.Dec(), joinAccounts(v.Votes))
		}
	})
}

func writeTracesSection(b *strings.Builder, events []trace.Event) {
	fmt.Fprintf(b, "## Phragmen traces\n\n")

	for _, e := range events {
		switch e.Kind {
		case trace.KindToElect:
			fmt.Fprintf(b, "Electing %d seats.\n\n", e.ToElect)
		case trace.KindRoundStart:
			fmt.Fprintf(b, "### Round %d\n\n", e.Round)
			writeCollapsible(b, fmt.Sprintf("Round %d: candidate state at round start", e.Round), func(b *strings.Builder) {
				writeCandidateScoreTable(b, e.RoundCandidates)
			})
		case trace.KindCandidateScoresCalculated:
			writeCollapsible(b, "Base scores (Phase A)", func(b *strings.Builder) {
				writeCandidateScoreTable(b, e.ScoresSnapshot)
			})
		case trace.KindCandidateScoresUpdatedByVoters:
			writeCollapsible(b, "Scores after voter augmentation (Phase B)", func(b *strings.Builder) {
				writeCandidateScoreTable(b, e.ScoresSnapshot)
			})
		case trace.KindCandidateElected:
			fmt.Fprintf(b, "Elected **%s** in round %d with score %s.\n\n",
				e.ElectedCandidate.Who, e.ElectedCandidate.Round, e.ElectedCandidate.Score)
		}
	}
}

func writeOutcomeSection(b *strings.Builder, res result.ElectionResults) {
	fmt.Fprintf(b, "## Election results\n\n")
	if res.ElectionData.Saturated {
		fmt.Fprintf(b, "> Arithmetic saturation occurred during this run; the result is best-effort.\n\n")
	}

	writeCollapsible(b, "Winners", func(b *strings.Builder) {
		fmt.Fprintf(b, "| Account | Role | Final score | Initial stake | Final stake |\n|---|---|---|---|---|\n")
		for _, fr := range res.ElectionData.FinalResults {
			if fr.Role == result.RoleNotElected {
				continue
			}
			fmt.Fprintf(b, "| %s | %s | %.6f | %s | %s |\n",
				accountLabel(fr.Account), fr.Role, fr.FinalScore, fr.InitialStake.String(), fr.FinalStake.String())
		}
	})

	writeCollapsible(b, "All candidates", func(b *strings.Builder) {
		fmt.Fprintf(b, "| Account | Role | Final score | Initial stake | Final stake |\n|---|---|---|---|---|\n")
		for _, fr := range res.ElectionData.FinalResults {
			fmt.Fprintf(b, "| %s | %s | %.6f | %s | %s |\n",
				accountLabel(fr.Account), fr.Role, fr.FinalScore, fr.InitialStake.String(), fr.FinalStake.String())
		}
	})
}

func writeCandidateScoreTable(b *strings.Builder, candidates []election.Candidate) {
	fmt.Fprintf(b, "| Account | Score | Approval stake | Elected |\n|---|---|---|---|\n")
	for _, c := range candidates {
		fmt.Fprintf(b, "| %s | %s | %s | %t |\n", c.Who, scoreLabel(c.Score), c.ApprovalStake.Dec(), c.Elected)
	}
}

func scoreLabel(s rational.Rational128) string {
	if s.IsInfinite() {
		return "inf"
	}
	return s.String()
}

func joinAccounts(ids []election.AccountID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}

func accountLabel(acc result.Account) string {
	if acc.DisplayName != "" {
		return fmt.Sprintf("%s (%s)", acc.DisplayName, acc.ID)
	}
	return acc.ID.String()
}

// writeCollapsible wraps body's output in an HTML <details> block, matching
// the report's use of collapsible sections for large tables.
func writeCollapsible(b *strings.Builder, summary string, body func(b *strings.Builder)) {
	fmt.Fprintf(b, "<details>\n<summary>%s</summary>\n\n", summary)
	body(b)
	fmt.Fprintf(b, "\n</details>\n\n")
}
