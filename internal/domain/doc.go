// Package domain holds the validated output types of the pipeline: quiz
// questions, the study summary, and the taxonomy, plus the rich-text and
// tag helpers they share.
package domain
