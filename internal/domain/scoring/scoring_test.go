package scoring_test

import (
	"math"
	"testing"

	scoring "github.com/smarrtifai/github-optimizer/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScore(t *testing.T) {
	Convey("Given the reference profile inputs", t, func() {
		in := scoring.Inputs{
			Stars:            50,
			Commits:          200,
			PullRequests:     10,
			Issues:           5,
			ContributedRepos: 3,
			AccountAgeDays:   730,
			PublicRepos:      20,
		}

		Convey("When scoring", func() {
			res := scoring.Score(in)

			Convey("Then each factor contributes its capped share", func() {
				want := map[string]float64{
					scoring.FactorStars:         2.5,
					scoring.FactorCommits:       30,
					scoring.FactorPullRequests:  3,
					scoring.FactorIssues:        1,
					scoring.FactorContributions: 6,
					scoring.FactorAccountAge:    2,
					scoring.FactorPublicRepos:   10,
				}
				So(len(res.Contributions), ShouldEqual, len(want))
				for _, c := range res.Contributions {
					So(c.Score, ShouldAlmostEqual, want[c.Factor], 1e-9)
				}
			})

			Convey("Then 54.5 rounds half to even", func() {
				So(res.Total, ShouldAlmostEqual, 54.5, 1e-9)
				So(res.Rating, ShouldEqual, 54)
			})
		})

		Convey("When scoring twice", func() {
			Convey("Then the results are identical", func() {
				So(scoring.Score(in), ShouldResemble, scoring.Score(in))
				So(scoring.Rating(in), ShouldEqual, 54)
			})
		})
	})

	Convey("Given a single extreme factor", t, func() {
		cases := []struct {
			name string
			in   scoring.Inputs
			want int
		}{
			{"commits", scoring.Inputs{Commits: 10_000}, 55},
			{"stars", scoring.Inputs{Stars: 1_000_000}, 5},
			{"prs", scoring.Inputs{PullRequests: 10_000}, 15},
			{"issues", scoring.Inputs{Issues: 10_000}, 10},
			{"contributions", scoring.Inputs{ContributedRepos: 500}, 15},
			{"age", scoring.Inputs{AccountAgeDays: 365 * 40}, 5},
			{"repos", scoring.Inputs{PublicRepos: 3000}, 10},
		}

		for _, tc := range cases {
			Convey("Then "+tc.name+" never exceeds its cap", func() {
				So(scoring.Rating(tc.in), ShouldEqual, tc.want)
			})
		}
	})

	Convey("Given every factor saturated", t, func() {
		in := scoring.Inputs{
			Stars: math.MaxInt32, Commits: math.MaxInt32, PullRequests: math.MaxInt32,
			Issues: math.MaxInt32, ContributedRepos: math.MaxInt32,
			AccountAgeDays: math.MaxInt32, PublicRepos: math.MaxInt32,
		}

		Convey("Then the rating is bounded by 100", func() {
			res := scoring.Score(in)
			So(res.Total, ShouldAlmostEqual, 115, 1e-9)
			So(res.Rating, ShouldEqual, 100)
		})
	})

	Convey("Given zero or negative inputs", t, func() {
		Convey("Then the rating is zero", func() {
			So(scoring.Rating(scoring.Inputs{}), ShouldEqual, 0)
			So(scoring.Rating(scoring.Inputs{Stars: -10, Commits: -3}), ShouldEqual, 0)
		})
	})

	Convey("Given totals at other half boundaries", t, func() {
		Convey("Then 1.5 rounds up and 2.5 rounds down", func() {
			So(scoring.Rating(scoring.Inputs{Commits: 10}), ShouldEqual, 2)
			So(scoring.Rating(scoring.Inputs{Stars: 50}), ShouldEqual, 2)
		})
	})
}
