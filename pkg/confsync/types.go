package confsync

import "github.com/bianoble/confsync/internal/engine"

// Type aliases re-export engine result types as the public API.
// Users import "github.com/bianoble/confsync/pkg/confsync" and use
// confsync.SyncResult, confsync.CheckResult, etc.

type SyncResult = engine.SyncResult
type TargetResult = engine.TargetResult
type TargetError = engine.TargetError
type TargetStatus = engine.TargetStatus
type CheckResult = engine.CheckResult
type Problem = engine.Problem
