// Package store is the MediSearch storage layer.
//
// SessionStore keeps chat messages and query logs, in memory or in Redis.
// ConditionIndex wraps the condition index in Elasticsearch.
package store
