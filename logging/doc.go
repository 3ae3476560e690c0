// Package logging provides named logrus loggers shared by the database,
// unit of work and repository layers.
//
// Console output is log4j styled text by default; set CONSOLE_LOG_FORMAT=json
// for one JSON record per line. LOG_LEVEL sets the initial level.
package logging
