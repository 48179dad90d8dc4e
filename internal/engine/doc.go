// Package engine drives one controller session: it owns the transport
// services, routes every inbound container to the component that consumes
// it, and correlates outgoing commands with their replies.
//
// ARCHITECTURE:
//
// Single Pump Goroutine:
// All mutable state (dispatchers, sequences, status and HAL mirrors, the
// operator log) is owned by the goroutine that calls Engine.Pump. Only the
// per-service reader goroutines run elsewhere, and they only move frames
// into a bounded inbox. Observers are called synchronously on the pump
// goroutine and must not block.
//
// Pump Cycle:
//  1. Tasks handed in through Submit run in FIFO order
//  2. Services are polled round-robin in fixed order (command, status,
//     error, halrcomp, halrcmd) until none has a frame or the per-cycle
//     bound is reached
//  3. Every frame is decoded and classified once, then routed by service
//  4. Every service and both dispatchers are pinged; sequences advance here
//  5. Services marked terminated are closed and their mirrors reset
//
// Command Lifecycle:
// Created -> Sent -> Executed -> Completed, with Obsolete reachable from any
// non-terminal state. A command expecting no reply is Completed as soon as
// it is sent.
//
// CRITICAL PATTERNS:
//
// CRITICAL-1: Tickets Outlive Connections
// Ticket counters belong to the engine, not to a socket. A replaced command
// service continues the sequence, so a late reply can never match a newer
// command.
//
// CRITICAL-2: Batch Barrier
// A sequence sends its next batch only on a ping, after every command of
// the current batch is Completed and its wait condition holds. Completion
// order inside a batch is irrelevant.
//
// CRITICAL-3: Stale State Is Discarded
// Closing a broadcast service resets the mirror it fed. Nothing received on
// a replaced connection is routed after the replacement.
package engine
