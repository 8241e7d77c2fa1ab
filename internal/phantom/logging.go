package phantom

import "go.uber.org/zap"

// Package logger. Defaults to a nop logger so the engine is silent unless a
// caller installs one (the cmd installs a development logger when DEBUG is
// set).
var log = zap.NewNop()

// SetLogger replaces the package logger. Passing nil restores the nop logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		log = zap.NewNop()
		return
	}
	log = l
}
