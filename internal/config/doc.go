// Package config loads the planner configuration.
//
// Configuration is read from a YAML file, overridden by PARCEL_PLANNER_*
// environment variables and command line flags, in increasing precedence.
// A loaded Config is defaulted and validated.
//
// Example parcel-planner.yaml:
//
//	version: "1.0.0"
//	language: java
//	sources:
//	  - src/main/java
//	analysis:
//	  accessor-style: javabeans
//	  strict-unboxing: false
//	  supported-types:
//	    - org.joda.time.DateTime
//	output:
//	  format: yaml
//	log:
//	  level: info
//
// Key types:
//   - Config: the root configuration
//   - AnalysisConfig: analyzer settings, converted with PlanConfig
package config
