package main

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"folio/internal/models"
)

// completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 folio.
func completion() *complete.Command {
	txTypes := make(predict.Set, 0, len(models.TransactionTypes))
	for _, t := range models.TransactionTypes {
		txTypes = append(txTypes, string(t))
	}
	id := predict.Something

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"login": {Flags: map[string]complete.Predictor{
				"u": predict.Something,
				"p": predict.Something,
			}},
			"logout":    {},
			"whoami":    {},
			"dashboard": {},
			"investments": {Flags: map[string]complete.Predictor{
				"id":      id,
				"history": predict.Nothing,
			}},
			"analytics": {Flags: map[string]complete.Predictor{
				"chart": predict.Set{"tags", "returns", "history"},
				"o":     predict.Files("*.png"),
				"id":    id,
			}},
			"add": {Flags: map[string]complete.Predictor{
				"name":        predict.Something,
				"description": predict.Something,
				"initial":     predict.Something,
				"current":     predict.Something,
				"currency":    predict.Something,
				"tags":        predict.Something,
			}},
			"update": {Flags: map[string]complete.Predictor{
				"id":          id,
				"name":        predict.Something,
				"description": predict.Something,
				"initial":     predict.Something,
				"currency":    predict.Something,
				"tags":        predict.Something,
			}},
			"delete": {Flags: map[string]complete.Predictor{
				"id": id,
			}},
			"tx": {Flags: map[string]complete.Predictor{
				"id":          id,
				"type":        txTypes,
				"amount":      predict.Something,
				"date":        predict.Something,
				"description": predict.Something,
			}},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
