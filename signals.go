package tnetstring

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for processor events. The codec functions themselves emit nothing.
var (
	SignalProcessorCreated = capitan.NewSignal("tnetstring.processor.created", "Processor instantiated")
	SignalReceiveComplete  = capitan.NewSignal("tnetstring.receive.complete", "Receive operation finished")
	SignalSendComplete     = capitan.NewSignal("tnetstring.send.complete", "Send operation finished")
)

// Keys for typed event data.
var (
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
	KeyHashedCount   = capitan.NewIntKey("hashed_count")
	KeyRedactedCount = capitan.NewIntKey("redacted_count")
	KeyMaskedCount   = capitan.NewIntKey("masked_count")
)

func emitProcessorCreated(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyTypeName.Field(typeName),
	)
}

func emitReceiveComplete(ctx context.Context, typeName string, size int, duration time.Duration, hashed int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyHashedCount.Field(hashed),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalReceiveComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalReceiveComplete, fields...)
}

func emitSendComplete(ctx context.Context, typeName string, size int, duration time.Duration, redacted, masked int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyRedactedCount.Field(redacted),
		KeyMaskedCount.Field(masked),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSendComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalSendComplete, fields...)
}
