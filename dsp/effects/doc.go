// Package effects implements the stereo audio effects shipped with the
// engine: delay, reverb, chorus, tremolo, filter, drive and limiter.
//
// Every effect satisfies unit.Unit and unit.Parameterized, so it can be
// hosted in a chain slot, introspected and automated without knowing its
// concrete type. Audible parameters are smoothed per sample; parameter
// writes only move targets and never click.
package effects
