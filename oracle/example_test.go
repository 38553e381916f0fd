package oracle_test

import (
	"context"
	"fmt"

	"github.com/civiclot/sortition/oracle"
	"github.com/civiclot/sortition/panel"
)

// ExampleOracle_BestPanel builds a four-respondent pool split red/blue
// with quotas requiring exactly one of each color, then prices a weight
// vector that strongly favors respondents "1" and "3" within their color.
func ExampleOracle_BestPanel() {
	respondents := []panel.Respondent{
		{ID: "1", Features: map[string]string{"color": "red"}},
		{ID: "2", Features: map[string]string{"color": "red"}},
		{ID: "3", Features: map[string]string{"color": "blue"}},
		{ID: "4", Features: map[string]string{"color": "blue"}},
	}
	quotas := panel.QuotaSpec{
		"color": {
			"red":  {Min: 1, Max: 1},
			"blue": {Min: 1, Max: 1},
		},
	}
	pool, err := panel.NewPool(respondents, quotas, 2)
	if err != nil {
		panic(err)
	}

	o, err := oracle.Init(context.Background(), pool, nil)
	if err != nil {
		panic(err)
	}

	best, _, err := o.BestPanel(context.Background(), map[panel.RespondentID]float64{
		"1": 10, "2": 1, "3": 10, "4": 1,
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(best.Members())
	// Output:
	// [1 3]
}
