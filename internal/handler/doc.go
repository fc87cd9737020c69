// Package handler implements the ingestion pipeline in front of the store:
// id assignment, category resolution, and timestamping. It is the single
// producer the store's ordering invariant relies on.
package handler
