// Package grid defines the configuration models for a parameter sweep and
// enumerates the exact (build, run) pairs a sweep executes.
//
// # Design Principles
//
//  1. Configurations are plain values. Two BuildConfigs with equal fields
//     identify the same compiled artifact and must share one build.
//  2. Enumeration is deterministic: the same inputs always produce the same
//     ordered plan. Downstream analysis depends on the enumerated shape.
//  3. Sentinel chunk values ("default", "n/a") are modeled explicitly rather
//     than smuggled through magic integers.
//
// # Core Types
//
// BuildConfig: parameters baked into the compiled artifact.
// RunConfig: parameters supplied through the child process environment.
// Plan: the ordered list of build groups and their run variants.
package grid
