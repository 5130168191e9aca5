//go:build integration

package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/modules/notification/service"
	"anoa.com/municipalservices/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishReachesLoginChannel(t *testing.T) {
	rdb := testutil.NewRedis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, service.Channel(7))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	svc := service.NewNotificationService(nil, nil, rdb, nil, zap.NewNop())
	svc.Publish(ctx, []entity.Notification{
		{ID: 41, LoginID: 7, Type: entity.NotificationTypeBill, TypeID: 3},
		{ID: 42, LoginID: 8, Type: entity.NotificationTypeBill, TypeID: 3},
	})

	select {
	case msg := <-sub.Channel():
		var got entity.Notification
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, uint(41), got.ID)
		assert.Equal(t, uint(7), got.LoginID)
	case <-time.After(5 * time.Second):
		t.Fatal("notification was not published")
	}
}
