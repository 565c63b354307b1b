// Package config provides configuration parsing for the alerts server.
//
// The configuration is stored in alerts.json. This package handles
// loading, saving, and validating it. Flags given to the CLI override
// values from the file.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "shutdownTimeout": "10s",
//	    "readTimeout": "15s"
//	  },
//	  "stream": {
//	    "transport": "websocket",
//	    "bufferSize": 64,
//	    "historySize": 256,
//	    "pingInterval": "30s"
//	  },
//	  "page": {
//	    "title": "Alerts",
//	    "stylesheets": ["https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"]
//	  },
//	  "metrics": {"enabled": true, "path": "/metrics", "namespace": "alerts"},
//	  "tracing": {"enabled": false, "serviceName": "alerts"},
//	  "log": {"level": "info"}
//	}
//
// The alert lifecycle timings are fixed and deliberately not configurable.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
