package tui

import "github.com/matheuskafuri/caniuse/internal/caniuse"

type lookupDoneMsg struct {
	term   string
	result *caniuse.Result
}

type lookupErrMsg struct {
	term string
	err  error
}

type openErrMsg struct {
	err error
}
