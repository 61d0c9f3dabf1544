// Package config loads application settings and normalization recipes.
//
// # Configuration Sources
//
// Settings are resolved in order of precedence:
//
//	1. Environment variables CATNORM_* (highest priority)
//	2. YAML file (explicit path, or catnorm.yaml / configs/catnorm.yaml)
//	3. Default values (lowest priority)
//
// Nested sections map to underscore-joined names:
//
//	CATNORM_SERVER_PORT=9090
//	CATNORM_LOGGING_LEVEL=debug
//	CATNORM_NORMALIZE_NA=NA,n/a
//	CATNORM_NORMALIZE_MAX_PARALLEL_COLUMNS=8
//
// # Recipes
//
// A recipe is a separate YAML document listing, per input column, the
// category set, missing-value tokens and recoding rules. Recipes are decoded
// strictly and validated with go-playground/validator:
//
//	columns:
//	  - name: smoker
//	    levels: [N, n, Y]
//	    recode:
//	      - {to: "No", from: [N, n]}
//	      - {to: "Yes", from: [Y]}
//	  - name: grade
//	    levels: [low, mid, high]
//	    ordered: true
//	    na: ["-", "n/a"]
package config
