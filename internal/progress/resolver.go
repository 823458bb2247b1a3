package progress

import (
	"context"

	"github.com/google/uuid"
)

// Checkpoints records which pipeline checkpoints a forecast has reached.
type Checkpoints struct {
	PrintVerified     bool
	QCLine            bool
	QCCutting         bool
	QCFinishing       bool
	QCFinishingDefect bool
	WarehouseDelivery bool
	WarehouseReceipt  bool
}

// Stage labels, in pipeline order.
const (
	StageAwaitingPrintVerification = "Awaiting print verification"
	StageAwaitingQCLine            = "Awaiting QC line"
	StageAwaitingQCCutting         = "Awaiting QC cutting"
	StageAwaitingQCFinishing       = "Awaiting QC finishing"
	StageAwaitingQCFinishingDefect = "Awaiting QC finishing defect review"
	StageAwaitingWarehouseDelivery = "Awaiting warehouse delivery"
	StageAwaitingWarehouseReceipt  = "Awaiting warehouse receipt"
	StageComplete                  = "Complete"
)

type step struct {
	done  func(Checkpoints) bool
	label string
}

// The defect record stays a forward gate between finishing and delivery even
// though it represents an exception path; the original pipeline orders it so.
var pipeline = []step{
	{func(c Checkpoints) bool { return c.PrintVerified }, StageAwaitingPrintVerification},
	{func(c Checkpoints) bool { return c.QCLine }, StageAwaitingQCLine},
	{func(c Checkpoints) bool { return c.QCCutting }, StageAwaitingQCCutting},
	{func(c Checkpoints) bool { return c.QCFinishing }, StageAwaitingQCFinishing},
	{func(c Checkpoints) bool { return c.QCFinishingDefect }, StageAwaitingQCFinishingDefect},
	{func(c Checkpoints) bool { return c.WarehouseDelivery }, StageAwaitingWarehouseDelivery},
	{func(c Checkpoints) bool { return c.WarehouseReceipt }, StageAwaitingWarehouseReceipt},
}

// Resolve returns the label of the first missing checkpoint, or Complete.
// It is a pure projection over checkpoint presence and is never persisted.
func Resolve(c Checkpoints) string {
	for _, s := range pipeline {
		if !s.done(c) {
			return s.label
		}
	}
	return StageComplete
}

// CheckpointReader reports checkpoint presence for a forecast.
type CheckpointReader interface {
	CheckpointsFor(ctx context.Context, forecastID uuid.UUID) (Checkpoints, error)
}

// Resolver derives a forecast's progress from stored checkpoint rows.
type Resolver struct {
	reader CheckpointReader
}

// NewResolver builds a progress resolver over the provided reader.
func NewResolver(reader CheckpointReader) *Resolver {
	return &Resolver{reader: reader}
}

// ForForecast loads checkpoint presence and resolves the current stage.
func (r *Resolver) ForForecast(ctx context.Context, forecastID uuid.UUID) (string, error) {
	checkpoints, err := r.reader.CheckpointsFor(ctx, forecastID)
	if err != nil {
		return "", err
	}
	return Resolve(checkpoints), nil
}
