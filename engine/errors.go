package engine

import "errors"

var ErrNoLegalMoves = errors.New("engine: no legal move in root position")
var ErrSearchInProgress = errors.New("engine: a search is already in progress")
var ErrNotSearching = errors.New("engine: no search in progress")
var ErrTerminated = errors.New("engine: interactive search has terminated")
var ErrUnknownCommand = errors.New("engine: unknown command")
var ErrBadFen = errors.New("engine: malformed FEN")
