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
	"fmt"
	"sort"
	"strings"

	"trpc.group/trpc-go/trpc-agent-go/tool"
	"trpc.group/trpc-go/trpc-agent-go/tool/function"
)

// Tool names of the generative UI agent.
const (
	ToolRevenueChart     = "render_revenue_chart"
	ToolRentalCars       = "search_rental_cars"
	ToolCompareProducts  = "compare_products"
	ToolDashboardMetrics = "get_dashboard_metrics"
)

// UI component kinds rendered by the client.
const (
	componentChart    = "chart"
	componentCards    = "card-grid"
	componentTable    = "table"
	componentMetrics  = "metrics"
	chartTypeBar      = "bar"
	chartTypeLine     = "line"
	periodMonthly     = "monthly"
	periodQuarterly   = "quarterly"
	defaultRentalDays = 3
	maxRentalDays     = 30
)

func generativeUITools() []tool.Tool {
	return []tool.Tool{
		function.NewFunctionTool(
			renderRevenueChart,
			function.WithName(ToolRevenueChart),
			function.WithDescription("Render a revenue chart. period is 'monthly' or 'quarterly', "+
				"chart_type is 'bar' or 'line'."),
		),
		function.NewFunctionTool(
			searchRentalCars,
			function.WithName(ToolRentalCars),
			function.WithDescription("Search rental cars at a location and render them as cards."),
		),
		function.NewFunctionTool(
			compareProducts,
			function.WithName(ToolCompareProducts),
			function.WithDescription("Render a product comparison table for a category: "+
				strings.Join(productCategories(), ", ")+"."),
		),
		function.NewFunctionTool(
			getDashboardMetrics,
			function.WithName(ToolDashboardMetrics),
			function.WithDescription("Render key business metrics as dashboard cards."),
		),
	}
}

type revenueChartArgs struct {
	Period    string `json:"period" description:"monthly or quarterly, default monthly"`
	ChartType string `json:"chart_type" description:"bar or line, default bar"`
}

type chartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type revenueChart struct {
	Component string       `json:"component"`
	ChartType string       `json:"chart_type"`
	Title     string       `json:"title"`
	Unit      string       `json:"unit"`
	Data      []chartPoint `json:"data"`
	Total     float64      `json:"total"`
}

var monthlyRevenue = []chartPoint{
	{"Jan", 42000}, {"Feb", 45500}, {"Mar", 51200},
	{"Apr", 49800}, {"May", 55300}, {"Jun", 61000},
	{"Jul", 58700}, {"Aug", 60400}, {"Sep", 64900},
	{"Oct", 67200}, {"Nov", 71800}, {"Dec", 78500},
}

func renderRevenueChart(_ context.Context, args revenueChartArgs) (revenueChart, error) {
	chartType := strings.ToLower(strings.TrimSpace(args.ChartType))
	if chartType == "" {
		chartType = chartTypeBar
	}
	if chartType != chartTypeBar && chartType != chartTypeLine {
		return revenueChart{}, fmt.Errorf("unsupported chart_type %q", args.ChartType)
	}
	period := strings.ToLower(strings.TrimSpace(args.Period))
	if period == "" {
		period = periodMonthly
	}

	var data []chartPoint
	switch period {
	case periodMonthly:
		data = append(data, monthlyRevenue...)
	case periodQuarterly:
		for q := 0; q < 4; q++ {
			var sum float64
			for _, p := range monthlyRevenue[q*3 : q*3+3] {
				sum += p.Value
			}
			data = append(data, chartPoint{Label: fmt.Sprintf("Q%d", q+1), Value: sum})
		}
	default:
		return revenueChart{}, fmt.Errorf("unsupported period %q", args.Period)
	}

	var total float64
	for _, p := range data {
		total += p.Value
	}
	return revenueChart{
		Component: componentChart,
		ChartType: chartType,
		Title:     strings.ToUpper(period[:1]) + period[1:] + " revenue",
		Unit:      "USD",
		Data:      data,
		Total:     total,
	}, nil
}

type rentalCarsArgs struct {
	Location string `json:"location" description:"Pickup city"`
	Days     int    `json:"days" description:"Rental length in days, default 3"`
}

type rentalCar struct {
	Model     string  `json:"model"`
	Class     string  `json:"class"`
	Seats     int     `json:"seats"`
	DailyRate float64 `json:"daily_rate"`
	Total     float64 `json:"total"`
	ImageURL  string  `json:"image_url"`
}

type rentalCarCards struct {
	Component string      `json:"component"`
	Location  string      `json:"location"`
	Days      int         `json:"days"`
	Cars      []rentalCar `json:"cars"`
}

var rentalFleet = []rentalCar{
	{Model: "Toyota Corolla", Class: "economy", Seats: 5, DailyRate: 39},
	{Model: "Honda CR-V", Class: "suv", Seats: 5, DailyRate: 62},
	{Model: "Tesla Model 3", Class: "electric", Seats: 5, DailyRate: 89},
	{Model: "Chrysler Pacifica", Class: "minivan", Seats: 7, DailyRate: 74},
}

func searchRentalCars(_ context.Context, args rentalCarsArgs) (rentalCarCards, error) {
	location := strings.TrimSpace(args.Location)
	if location == "" {
		return rentalCarCards{}, fmt.Errorf("location is required")
	}
	days := args.Days
	if days == 0 {
		days = defaultRentalDays
	}
	if days < 1 || days > maxRentalDays {
		return rentalCarCards{}, fmt.Errorf("days must be between 1 and %d", maxRentalDays)
	}
	cars := make([]rentalCar, 0, len(rentalFleet))
	for _, c := range rentalFleet {
		c.Total = c.DailyRate * float64(days)
		c.ImageURL = "https://placehold.co/320x180?text=" + strings.ReplaceAll(c.Model, " ", "+")
		cars = append(cars, c)
	}
	return rentalCarCards{Component: componentCards, Location: location, Days: days, Cars: cars}, nil
}

type compareProductsArgs struct {
	Category string `json:"category" description:"Product category to compare"`
}

type comparisonTable struct {
	Component string     `json:"component"`
	Category  string     `json:"category"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
}

var productTables = map[string]comparisonTable{
	"laptops": {
		Columns: []string{"Model", "CPU", "RAM", "Battery", "Price"},
		Rows: [][]string{
			{"MacBook Air 13", "Apple M3", "16 GB", "18 h", "$1,099"},
			{"Dell XPS 13", "Intel Core Ultra 7", "16 GB", "13 h", "$1,199"},
			{"ThinkPad X1 Carbon", "Intel Core Ultra 7", "32 GB", "15 h", "$1,649"},
		},
	},
	"phones": {
		Columns: []string{"Model", "Screen", "Storage", "Camera", "Price"},
		Rows: [][]string{
			{"iPhone 15", "6.1 in", "128 GB", "48 MP", "$799"},
			{"Pixel 8", "6.2 in", "128 GB", "50 MP", "$699"},
			{"Galaxy S24", "6.2 in", "256 GB", "50 MP", "$859"},
		},
	},
	"headphones": {
		Columns: []string{"Model", "ANC", "Battery", "Weight", "Price"},
		Rows: [][]string{
			{"Sony WH-1000XM5", "yes", "30 h", "250 g", "$399"},
			{"Bose QC Ultra", "yes", "24 h", "254 g", "$429"},
			{"AirPods Max", "yes", "20 h", "385 g", "$549"},
		},
	},
}

func productCategories() []string {
	names := make([]string, 0, len(productTables))
	for k := range productTables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func compareProducts(_ context.Context, args compareProductsArgs) (comparisonTable, error) {
	category := strings.ToLower(strings.TrimSpace(args.Category))
	table, ok := productTables[category]
	if !ok {
		return comparisonTable{}, fmt.Errorf("unknown category %q, expected one of %s",
			args.Category, strings.Join(productCategories(), ", "))
	}
	table.Component = componentTable
	table.Category = category
	return table, nil
}

type dashboardArgs struct{}

type metricCard struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Trend  string `json:"trend"`
}

type dashboardMetrics struct {
	Component string       `json:"component"`
	Metrics   []metricCard `json:"metrics"`
}

func getDashboardMetrics(_ context.Context, _ dashboardArgs) (dashboardMetrics, error) {
	return dashboardMetrics{
		Component: componentMetrics,
		Metrics: []metricCard{
			{Label: "Revenue", Value: "$706,300", Change: "+12.4%", Trend: "up"},
			{Label: "Active users", Value: "18,204", Change: "+5.1%", Trend: "up"},
			{Label: "Conversion", Value: "3.8%", Change: "+0.3pp", Trend: "up"},
			{Label: "Churn", Value: "1.9%", Change: "-0.2pp", Trend: "down"},
		},
	}, nil
}
