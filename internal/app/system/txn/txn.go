// internal/app/system/txn/txn.go

// Package txn wraps multi-document MongoDB transactions. Standalone
// servers (and some DocumentDB deployments) reject transactions; callers
// use IsNotSupported to detect that and fall back to compensating writes.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a session transaction. The transaction
// commits when fn returns nil and aborts when it returns an error.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sessCtx mongo.SessionContext) error) error {
	sess, err := client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Server error codes that indicate transactions are unavailable:
// 20 IllegalOperation (not a replica set member), 51 command not allowed,
// 263 OperationNotSupportedInTransaction.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone mongod, DocumentDB, etc.).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && notSupportedCodes[cmdErr.Code] {
		return true
	}

	// Driver and server messages vary; match keyword pairs rather than
	// exact strings.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "illegal operation") {
		return true
	}
	hasTxn := strings.Contains(msg, "transaction")
	hasSess := strings.Contains(msg, "session")
	if (hasTxn || hasSess) && (strings.Contains(msg, "replica set") || strings.Contains(msg, "not supported")) {
		return true
	}
	return hasTxn && hasSess
}
