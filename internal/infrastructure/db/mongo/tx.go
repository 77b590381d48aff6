package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxManager runs callbacks inside a MongoDB multi-document transaction.
// Repositories join the transaction automatically because the driver threads
// the session through the context handed to the callback.
type TxManager struct {
	client *mongo.Client
}

func NewTxManager(client *mongo.Client) *TxManager {
	return &TxManager{client: client}
}

// WithinTransaction executes fn in a single transaction. The driver may retry
// fn on transient transaction errors, so fn must be safe to re-run.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
