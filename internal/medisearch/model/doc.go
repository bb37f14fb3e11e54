// Package model defines the MediSearch domain types.
//
// Condition is the indexed document and SearchResult its outward form.
// ChatMessage and SearchQueryLog are held by the session store.
package model
