//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRevenueChart(t *testing.T) {
	ctx := context.Background()

	monthly, err := renderRevenueChart(ctx, revenueChartArgs{})
	require.NoError(t, err)
	assert.Equal(t, componentChart, monthly.Component)
	assert.Equal(t, chartTypeBar, monthly.ChartType)
	assert.Equal(t, "Monthly revenue", monthly.Title)
	assert.Len(t, monthly.Data, 12)
	assert.Equal(t, 706300.0, monthly.Total)

	quarterly, err := renderRevenueChart(ctx, revenueChartArgs{Period: "Quarterly", ChartType: "line"})
	require.NoError(t, err)
	assert.Equal(t, chartTypeLine, quarterly.ChartType)
	require.Len(t, quarterly.Data, 4)
	assert.Equal(t, "Q1", quarterly.Data[0].Label)
	assert.Equal(t, 138700.0, quarterly.Data[0].Value)
	assert.Equal(t, monthly.Total, quarterly.Total)

	_, err = renderRevenueChart(ctx, revenueChartArgs{ChartType: "pie"})
	assert.Error(t, err)
	_, err = renderRevenueChart(ctx, revenueChartArgs{Period: "weekly"})
	assert.Error(t, err)
}

func TestSearchRentalCars(t *testing.T) {
	ctx := context.Background()

	cards, err := searchRentalCars(ctx, rentalCarsArgs{Location: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, componentCards, cards.Component)
	assert.Equal(t, defaultRentalDays, cards.Days)
	require.Len(t, cards.Cars, len(rentalFleet))
	assert.Equal(t, 39.0*3, cards.Cars[0].Total)
	assert.Contains(t, cards.Cars[0].ImageURL, "Toyota+Corolla")
	// The shared fleet is not mutated.
	assert.Zero(t, rentalFleet[0].Total)

	_, err = searchRentalCars(ctx, rentalCarsArgs{})
	assert.Error(t, err)
	_, err = searchRentalCars(ctx, rentalCarsArgs{Location: "Lisbon", Days: maxRentalDays + 1})
	assert.Error(t, err)
}

func TestCompareProducts(t *testing.T) {
	ctx := context.Background()

	table, err := compareProducts(ctx, compareProductsArgs{Category: " Laptops "})
	require.NoError(t, err)
	assert.Equal(t, componentTable, table.Component)
	assert.Equal(t, "laptops", table.Category)
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Columns))
	}

	_, err = compareProducts(ctx, compareProductsArgs{Category: "cars"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "headphones, laptops, phones")
}

func TestGetDashboardMetrics(t *testing.T) {
	m, err := getDashboardMetrics(context.Background(), dashboardArgs{})
	require.NoError(t, err)
	assert.Equal(t, componentMetrics, m.Component)
	assert.Len(t, m.Metrics, 4)
}
