package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
	portssvc "github.com/vespo92/QBMCPServer/internal/core/ports/services"
	"github.com/vespo92/QBMCPServer/internal/core/services"
)

type AggregationServiceTestSuite struct {
	suite.Suite
	service  *services.AggregationService
	jobcodes domain.JobcodeSet
	users    map[int64]domain.User
}

func (suite *AggregationServiceTestSuite) SetupTest() {
	suite.service = services.NewAggregationService()
	suite.jobcodes = domain.JobcodeSet{
		10: {ID: 10, Name: "Consulting", Type: domain.JobcodeRegular},
		20: {ID: 20, Name: "Vacation", Type: domain.JobcodePTO},
		30: {ID: 30, Name: "Lunch", Type: domain.JobcodeUnpaidBreak},
	}
	rate := decimal.NewFromInt(20)
	suite.users = map[int64]domain.User{
		1: {ID: 1, FirstName: "Ada", LastName: "Bell", GroupID: 100, HourlyRate: &rate},
		2: {ID: 2, FirstName: "Ben", LastName: "Cole", GroupID: 100},
	}
}

// entry builds a timesheet on the given weekday of the week starting
// Monday 2024-12-02, so every entry lands in the same ISO week.
func entry(userID, jobcodeID int64, dayOffset int, hours int64) domain.Timesheet {
	day := time.Date(2024, time.December, 2+dayOffset, 8, 0, 0, 0, time.UTC)
	return domain.Timesheet{
		ID:        int64(dayOffset)*100 + userID,
		UserID:    userID,
		JobcodeID: jobcodeID,
		Start:     day,
		End:       day.Add(time.Duration(hours) * time.Hour),
		Duration:  hours * 3600,
		Date:      day.Format(domain.ISODate),
	}
}

func (suite *AggregationServiceTestSuite) aggregate(entries []domain.Timesheet, dim domain.Dimension) domain.AggregateTotals {
	return suite.service.Aggregate(entries, suite.jobcodes, suite.users, dim, portssvc.AggregateOptions{})
}

func (suite *AggregationServiceTestSuite) TestWeeklyOvertimeSplit() {
	// Five 9-hour days: 45 hours, of which 5 fall over the 40-hour line.
	var entries []domain.Timesheet
	for day := 0; day < 5; day++ {
		entries = append(entries, entry(1, 10, day, 9))
	}

	totals := suite.aggregate(entries, domain.DimensionUser)
	suite.Require().Contains(totals, int64(1))
	suite.Equal(int64(40*3600), totals[1].RegularSeconds)
	suite.Equal(int64(5*3600), totals[1].OvertimeSeconds)
	suite.Equal(int64(0), totals[1].DoubletimeSeconds)
	suite.Equal(int64(45*3600), totals[1].TotalSeconds())
	suite.Equal(int64(5), totals[1].EntryCount)
}

func (suite *AggregationServiceTestSuite) TestOvertimeAccumulatesInStartOrder() {
	// Passed out of order; the Friday entry must still be the one that
	// crosses the line.
	entries := []domain.Timesheet{
		entry(1, 10, 4, 9),
		entry(1, 10, 0, 9),
		entry(1, 10, 2, 9),
		entry(1, 10, 1, 9),
		entry(1, 10, 3, 9),
	}
	totals := suite.aggregate(entries, domain.DimensionUser)
	suite.Equal(int64(40*3600), totals[1].RegularSeconds)
	suite.Equal(int64(5*3600), totals[1].OvertimeSeconds)
}

func (suite *AggregationServiceTestSuite) TestOvertimeIsPerUser() {
	var entries []domain.Timesheet
	for day := 0; day < 5; day++ {
		entries = append(entries, entry(1, 10, day, 9), entry(2, 10, day, 8))
	}
	totals := suite.aggregate(entries, domain.DimensionUser)
	suite.Equal(int64(5*3600), totals[1].OvertimeSeconds)
	suite.Equal(int64(0), totals[2].OvertimeSeconds)
	suite.Equal(int64(40*3600), totals[2].RegularSeconds)
}

func (suite *AggregationServiceTestSuite) TestPTOStaysOutOfOvertimeAccumulation() {
	// 40 regular hours plus a PTO day: no overtime, PTO tracked apart.
	var entries []domain.Timesheet
	for day := 0; day < 5; day++ {
		entries = append(entries, entry(1, 10, day, 8))
	}
	entries = append(entries, entry(1, 20, 5, 8))

	totals := suite.aggregate(entries, domain.DimensionUser)
	suite.Equal(int64(40*3600), totals[1].RegularSeconds)
	suite.Equal(int64(0), totals[1].OvertimeSeconds)
	suite.Equal(int64(8*3600), totals[1].PTOSeconds)
}

func (suite *AggregationServiceTestSuite) TestDoubletimeOnlyFromSourceFlag() {
	long := entry(1, 10, 0, 16) // a long day alone never becomes double-time
	flagged := entry(1, 10, 1, 8)
	flagged.Doubletime = true

	totals := suite.aggregate([]domain.Timesheet{long, flagged}, domain.DimensionUser)
	suite.Equal(int64(16*3600), totals[1].RegularSeconds)
	suite.Equal(int64(8*3600), totals[1].DoubletimeSeconds)
	suite.Equal(int64(0), totals[1].OvertimeSeconds)
}

func (suite *AggregationServiceTestSuite) TestBreakTimeSkipsOvertimeAccumulation() {
	// 40 regular hours plus 5 hours of break time: breaks are paid as
	// regular but never push the week over the line.
	var entries []domain.Timesheet
	for day := 0; day < 5; day++ {
		entries = append(entries, entry(1, 10, day, 8))
		entries = append(entries, entry(1, 30, day, 1))
	}
	totals := suite.aggregate(entries, domain.DimensionUser)
	suite.Equal(int64(45*3600), totals[1].RegularSeconds)
	suite.Equal(int64(0), totals[1].OvertimeSeconds)
}

func (suite *AggregationServiceTestSuite) TestCostDerivation() {
	var entries []domain.Timesheet
	for day := 0; day < 5; day++ {
		entries = append(entries, entry(1, 10, day, 9))
	}
	totals := suite.aggregate(entries, domain.DimensionUser)

	t := totals[1]
	suite.Require().NotNil(t.RegularCost)
	suite.Require().NotNil(t.OvertimeCost)
	suite.Require().NotNil(t.TotalCost)
	suite.True(t.RegularCost.Equal(decimal.NewFromInt(800)), "regular cost %s", t.RegularCost)
	suite.True(t.OvertimeCost.Equal(decimal.NewFromInt(150)), "overtime cost %s", t.OvertimeCost)
	suite.True(t.TotalCost.Equal(decimal.NewFromInt(950)), "total cost %s", t.TotalCost)
}

func (suite *AggregationServiceTestSuite) TestMissingRateOmitsCosts() {
	totals := suite.aggregate([]domain.Timesheet{entry(2, 10, 0, 8)}, domain.DimensionUser)
	suite.Nil(totals[2].RegularCost)
	suite.Nil(totals[2].TotalCost)
}

func (suite *AggregationServiceTestSuite) TestGroupAndJobcodeDimensions() {
	entries := []domain.Timesheet{entry(1, 10, 0, 8), entry(2, 10, 0, 8), entry(1, 20, 1, 8)}

	byGroup := suite.aggregate(entries, domain.DimensionGroup)
	suite.Require().Contains(byGroup, int64(100))
	suite.Equal(int64(16*3600), byGroup[100].RegularSeconds)
	suite.Equal(int64(8*3600), byGroup[100].PTOSeconds)

	byJobcode := suite.aggregate(entries, domain.DimensionJobcode)
	suite.Equal(int64(16*3600), byJobcode[10].RegularSeconds)
	suite.Equal(int64(8*3600), byJobcode[20].PTOSeconds)
}

func (suite *AggregationServiceTestSuite) TestZeroFill() {
	totals := suite.service.Aggregate([]domain.Timesheet{entry(1, 10, 0, 8)}, suite.jobcodes, suite.users,
		domain.DimensionUser, portssvc.AggregateOptions{IncludeZero: true, Keys: []int64{1, 2}})

	suite.Require().Contains(totals, int64(2))
	suite.Equal(int64(0), totals[2].TotalSeconds())
	suite.Equal(int64(8*3600), totals[1].RegularSeconds)
}

func (suite *AggregationServiceTestSuite) TestClassifiedSecondsSumToDurations() {
	entries := []domain.Timesheet{
		entry(1, 10, 0, 9), entry(1, 20, 1, 8), entry(1, 30, 2, 1), entry(2, 10, 0, 12),
	}
	entries[3].Doubletime = true

	var want int64
	for _, e := range entries {
		want += e.DurationSeconds()
	}
	totals := suite.aggregate(entries, domain.DimensionUser)
	var got int64
	for _, t := range totals {
		got += t.TotalSeconds()
	}
	suite.Equal(want, got)
}

func (suite *AggregationServiceTestSuite) TestBuildPayrollReport() {
	dr := domain.DateRange{StartDate: "2024-12-02", EndDate: "2024-12-08"}
	var entries []domain.Timesheet
	for day := 0; day < 5; day++ {
		entries = append(entries, entry(1, 10, day, 9), entry(2, 10, day, 8))
	}
	entries = append(entries, entry(2, 20, 5, 8))

	report := suite.service.BuildPayrollReport(dr, entries, suite.jobcodes, suite.users)
	suite.Equal(dr, report.DateRange)
	suite.Len(report.ByUser, 2)
	suite.Equal(int64(80*3600), report.Totals.RegularSeconds)
	suite.Equal(int64(5*3600), report.Totals.OvertimeSeconds)
	suite.Equal(int64(8*3600), report.Totals.PTOSeconds)
	suite.Equal(int64(93*3600), report.Totals.TotalSeconds)
}

func (suite *AggregationServiceTestSuite) TestEntriesAcrossWeeksResetAccumulation() {
	var entries []domain.Timesheet
	for day := 0; day < 5; day++ { // Mon-Fri 2024-12-02..06 and 2024-12-09..13
		entries = append(entries, entry(1, 10, day, 8), entry(1, 10, day+7, 8))
	}
	totals := suite.aggregate(entries, domain.DimensionUser)
	// 40 hours in each week, none of it overtime.
	suite.Equal(int64(80*3600), totals[1].RegularSeconds)
	suite.Equal(int64(0), totals[1].OvertimeSeconds)
}

func TestAggregationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AggregationServiceTestSuite))
}

// Quick sanity on the helper so week math above stays honest.
func TestEntryHelperLandsInExpectedWeek(t *testing.T) {
	e := entry(1, 10, 6, 8)
	if e.Date != "2024-12-08" {
		t.Fatalf("unexpected date %s", e.Date)
	}
}
