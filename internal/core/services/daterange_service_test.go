package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/vespo92/QBMCPServer/internal/apperrors"
	"github.com/vespo92/QBMCPServer/internal/core/domain"
	"github.com/vespo92/QBMCPServer/internal/core/services"
)

type DateRangeServiceTestSuite struct {
	suite.Suite
	service *services.DateRangeService
	anchor  time.Time
}

func (suite *DateRangeServiceTestSuite) SetupTest() {
	suite.service = services.NewDateRangeService(time.UTC)
	// Tuesday, December 31, 2024.
	suite.anchor = time.Date(2024, time.December, 31, 15, 4, 5, 0, time.UTC)
}

// Today's date comes from the configured reporting timezone, not the
// process-local one, so callers defaulting a period from Now never
// land a day off the configured calendar.
func (suite *DateRangeServiceTestSuite) TestNowUsesConfiguredTimezone() {
	loc := time.FixedZone("UTC+14", 14*3600)
	svc := services.NewDateRangeService(loc)
	suite.Equal(loc, svc.Now().Location())
}

func (suite *DateRangeServiceTestSuite) resolve(expr string) domain.DateRange {
	dr, err := suite.service.Resolve(expr, suite.anchor)
	suite.Require().NoError(err, "expression %q", expr)
	return dr
}

func (suite *DateRangeServiceTestSuite) TestRelativeExpressions() {
	cases := []struct {
		expr  string
		start string
		end   string
	}{
		{"today", "2024-12-31", "2024-12-31"},
		{"yesterday", "2024-12-30", "2024-12-30"},
		{"this week", "2024-12-30", "2025-01-05"},
		{"last week", "2024-12-23", "2024-12-29"},
		{"this month", "2024-12-01", "2024-12-31"},
		{"last month", "2024-11-01", "2024-11-30"},
		{"this quarter", "2024-10-01", "2024-12-31"},
		{"last quarter", "2024-07-01", "2024-09-30"},
		{"year to date", "2024-01-01", "2024-12-31"},
		{"ytd", "2024-01-01", "2024-12-31"},
		{"last year", "2023-01-01", "2023-12-31"},
	}
	for _, tc := range cases {
		dr := suite.resolve(tc.expr)
		suite.Equal(tc.start, dr.StartDate, "start of %q", tc.expr)
		suite.Equal(tc.end, dr.EndDate, "end of %q", tc.expr)
	}
}

func (suite *DateRangeServiceTestSuite) TestExpressionsAreCaseInsensitive() {
	suite.Equal(suite.resolve("last week"), suite.resolve("  Last Week "))
}

func (suite *DateRangeServiceTestSuite) TestLiteralDates() {
	for _, expr := range []string{"2024-12-15", "12/15/2024", "12-15-2024", "December 15, 2024", "Dec 15, 2024", "15 December 2024"} {
		dr := suite.resolve(expr)
		suite.Equal("2024-12-15", dr.StartDate, "expression %q", expr)
		suite.Equal("2024-12-15", dr.EndDate, "expression %q", expr)
	}
}

func (suite *DateRangeServiceTestSuite) TestFiscalExpressionsAreAmbiguous() {
	_, err := suite.service.Resolve("fiscal year", suite.anchor)
	suite.ErrorIs(err, apperrors.ErrAmbiguousDate)
}

func (suite *DateRangeServiceTestSuite) TestUnrecognizedExpression() {
	_, err := suite.service.Resolve("someday soon", suite.anchor)
	suite.ErrorIs(err, apperrors.ErrUnparseableDate)
}

func (suite *DateRangeServiceTestSuite) TestBiweeklyPeriodEnding() {
	dr, err := suite.service.BiweeklyPeriodEnding("2024-12-31")
	suite.Require().NoError(err)
	suite.Equal("2024-12-18", dr.StartDate)
	suite.Equal("2024-12-31", dr.EndDate)

	_, err = suite.service.BiweeklyPeriodEnding("31/12/2024")
	suite.ErrorIs(err, apperrors.ErrUnparseableDate)
}

func (suite *DateRangeServiceTestSuite) TestQuarterRange() {
	dr, err := suite.service.QuarterRange(2, 2025)
	suite.Require().NoError(err)
	suite.Equal("2025-04-01", dr.StartDate)
	suite.Equal("2025-06-30", dr.EndDate)

	_, err = suite.service.QuarterRange(5, 2025)
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.QuarterRange(0, 2025)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DateRangeServiceTestSuite) TestLastQuarterCrossesYearBoundary() {
	anchor := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	dr, err := suite.service.Resolve("last quarter", anchor)
	suite.Require().NoError(err)
	suite.Equal("2024-10-01", dr.StartDate)
	suite.Equal("2024-12-31", dr.EndDate)
}

func TestDateRangeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DateRangeServiceTestSuite))
}
