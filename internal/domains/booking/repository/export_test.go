package repository

var (
	OverrideUpdate       = overrideUpdate
	CompleteElapsedQuery = completeElapsedQuery
)
