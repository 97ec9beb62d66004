package api

// Error mapping is done inline in handlers.
// Auth errors mapped in auth package interceptor.
// Oversized sentences and batches, and non-string batch items, map to INVALID_ARGUMENT.
// History database errors map to UNAVAILABLE.
// Request timeouts map to DEADLINE_EXCEEDED.
