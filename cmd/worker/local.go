package main

import (
	"os"

	"github.com/google/uuid"
)

func localBody() string {
	if body := os.Getenv("LOCAL_SQS_BODY"); body != "" {
		return body
	}
	return `{"order_id":"local-order-1","status":"delivered","idempotency_key":"` + uuid.NewString() + `"}`
}
