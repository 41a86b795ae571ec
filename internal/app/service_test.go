package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/admitwise/josaa/internal/adapters/cache"
	"github.com/admitwise/josaa/internal/app"
	"github.com/admitwise/josaa/internal/engine"
	"github.com/admitwise/josaa/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const serviceCSV = `Institute,Academic Program Name,Category,College Type,Round,Opening Rank,Closing Rank
IIT Bombay,Computer Science and Engineering,OPEN,IIT,1,100,500
IIT Delhi,Computer Science and Engineering,OPEN,IIT,1,150,600
NIT Trichy,Computer Science and Engineering,OPEN,NIT,1,900,2100
NIT Trichy,Electrical Engineering,OPEN,NIT,2,1800,3900
`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cutoffs.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func validQuery() engine.RawQuery {
	return engine.RawQuery{
		JEERank:         300,
		Category:        "OPEN",
		CollegeType:     "ALL",
		PreferredBranch: "ALL",
		RoundNo:         1,
		MinProbability:  0,
	}
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service pointed at a valid dataset", t, func() {
		ctx := context.Background()
		path := writeDataset(t, serviceCSV)
		svc := app.New(app.WithDatasetPath(path))

		Convey("When the service has not started", func() {
			So(svc.Ready(), ShouldBeFalse)

			_, _, err := svc.Predict(ctx, validQuery())
			So(err, ShouldWrap, app.ErrNotReady)

			_, err = svc.Branches()
			So(err, ShouldWrap, app.ErrNotReady)

			_, err = svc.Options()
			So(err, ShouldWrap, app.ErrNotReady)
		})

		Convey("When the service starts", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			So(svc.Ready(), ShouldBeTrue)

			Convey("Then predictions work end to end", func() {
				results, summary, err := svc.Predict(ctx, validQuery())

				So(err, ShouldBeNil)
				So(results, ShouldNotBeEmpty)
				So(summary.Total, ShouldEqual, len(results))
				So(results[0].Preference, ShouldEqual, 1)
				for i := 1; i < len(results); i++ {
					So(results[i].Probability, ShouldBeLessThanOrEqualTo, results[i-1].Probability)
					So(results[i].Preference, ShouldEqual, i+1)
				}
			})

			Convey("Then option values reflect the dataset", func() {
				opts, err := svc.Options()

				So(err, ShouldBeNil)
				So(opts.Branches, ShouldResemble, []string{
					"Computer Science and Engineering",
					"Electrical Engineering",
				})
				So(opts.Categories, ShouldResemble, []string{"OPEN"})
				So(opts.CollegeTypes, ShouldResemble, []string{"IIT", "NIT"})
				So(opts.Rounds, ShouldResemble, []int{1, 2})
			})

			Convey("Then stats expose the table build", func() {
				stats := svc.Stats(ctx)

				So(stats["ready"], ShouldBeTrue)
				So(stats["dataset_rows"], ShouldEqual, 4)
				So(stats["max_round"], ShouldEqual, 2)
			})

			Convey("Then a validation failure surfaces its sentinel", func() {
				raw := validQuery()
				raw.Category = "bogus"
				_, _, err := svc.Predict(ctx, raw)

				So(err, ShouldWrap, engine.ErrInvalidCategory)
			})
		})

		Convey("When the dataset file changes and Reload runs", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			before := svc.Stats(ctx)["dataset_version"]

			extra := serviceCSV + "IIIT Hyderabad,Computer Science and Engineering,OPEN,IIIT,1,300,800\n"
			So(os.WriteFile(path, []byte(extra), 0o600), ShouldBeNil)
			So(svc.Reload(ctx), ShouldBeNil)

			Convey("Then the new table is published with a new version", func() {
				stats := svc.Stats(ctx)
				So(stats["dataset_rows"], ShouldEqual, 5)
				So(stats["dataset_version"], ShouldNotEqual, before)
			})
		})

		Convey("When Reload hits a broken dataset", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			So(os.WriteFile(path, []byte("Institute,Round\nIIT Bombay,1\n"), 0o600), ShouldBeNil)
			err := svc.Reload(ctx)

			Convey("Then the previous table stays published", func() {
				So(err, ShouldNotBeNil)
				So(svc.Ready(), ShouldBeTrue)
				So(svc.Stats(ctx)["dataset_rows"], ShouldEqual, 4)
			})
		})
	})

	Convey("Given a service pointed at a missing dataset", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithDatasetPath(filepath.Join(t.TempDir(), "nope.csv")))

		Convey("When the service starts", func() {
			err := svc.Start(ctx)

			So(err, ShouldNotBeNil)
			So(svc.Ready(), ShouldBeFalse)
		})
	})

	Convey("Given a service with an invalid exclusion rule", t, func() {
		ctx := context.Background()
		path := writeDataset(t, serviceCSV)
		svc := app.New(
			app.WithDatasetPath(path),
			app.WithExclusionRules([]string{`institute == `}),
		)

		Convey("When the service starts", func() {
			So(svc.Start(ctx), ShouldNotBeNil)
		})
	})
}

func TestServiceCaching(t *testing.T) {
	Convey("Given a service with a memory cache", t, func() {
		ctx := context.Background()
		path := writeDataset(t, serviceCSV)
		mem := cache.NewMemoryCache()
		svc := app.New(app.WithDatasetPath(path), app.WithCache(mem))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the same query runs twice", func() {
			first, _, err := svc.Predict(ctx, validQuery())
			So(err, ShouldBeNil)
			So(mem.Len(ctx), ShouldEqual, 1)

			second, _, err := svc.Predict(ctx, validQuery())

			Convey("Then the second response is served identically", func() {
				So(err, ShouldBeNil)
				So(second, ShouldResemble, first)
				So(mem.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the table is reloaded between queries", func() {
			_, _, err := svc.Predict(ctx, validQuery())
			So(err, ShouldBeNil)
			So(svc.Reload(ctx), ShouldBeNil)

			_, _, err = svc.Predict(ctx, validQuery())

			Convey("Then the version-scoped key forces a fresh entry", func() {
				So(err, ShouldBeNil)
				So(mem.Len(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestServiceExclusionRules(t *testing.T) {
	Convey("Given a service configured to exclude an institute", t, func() {
		ctx := context.Background()
		path := writeDataset(t, serviceCSV)
		svc := app.New(
			app.WithDatasetPath(path),
			app.WithExclusionRules([]string{`institute == "IIT Delhi"`}),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a prediction runs", func() {
			results, _, err := svc.Predict(ctx, validQuery())

			Convey("Then the excluded institute never appears", func() {
				So(err, ShouldBeNil)
				So(results, ShouldNotBeEmpty)
				for _, r := range results {
					So(r.Institute, ShouldNotEqual, "IIT Delhi")
				}
			})
		})
	})
}
