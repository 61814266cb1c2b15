// Package config provides configuration parsing for routekit.
//
// The configuration is stored in routekit.json next to the route manifest.
// Every field is optional; missing values fall back to the defaults
// returned by New.
//
// # Configuration File Structure
//
//	{
//	  "manifest": "routes.yaml",
//	  "culture": {
//	    "numeric": "de-DE",
//	    "dateTime": "en-GB",
//	    "timeZone": "Europe/Berlin"
//	  },
//	  "authorization": {
//	    "expr": "meta.admin != true or \"admin\" in roles"
//	  },
//	  "metrics": {
//	    "namespace": "shop"
//	  },
//	  "tracing": {
//	    "tracerName": "shop.routing"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts, err := cfg.ParseOptions()
package config
