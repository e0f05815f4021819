// Package config loads a logger hierarchy configuration from YAML and
// applies it to a logger.Hierarchy.
//
//	root:
//	  level: WARN
//	  appenders: [console]
//	loggers:
//	  svc.db:
//	    level: DEBUG
//	    additivity: false
//	    appenders: [rolling]
//	appenders:
//	  console: {type: console, target: stderr}
//	  rolling: {type: file, filename: /var/log/app.log, max_size_mb: 10, format: json}
//
// Appender types are console, file, async, multi, zap and null (also
// spelled discard). Async and multi appenders forward to the appenders
// named in their own appenders list.
//
// Environment variables override the file: HLOG_ROOT_LEVEL sets the
// root level, HLOG_DISABLE the hierarchy-wide disable threshold, and
// HLOG_CONFIG names the file FromEnv loads.
package config
