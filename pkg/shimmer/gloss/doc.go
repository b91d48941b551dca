// Package gloss holds the producer-side helpers around the codec: text
// normalization, confusable action repair and a deterministic English gloss.
//
// The parser itself only accepts strict text. Normalize is what turns model
// output such as
//
//	```json
//	AB c -> [0.5,0.5,0.5,0.5]
//	```
//
// into "ABc→[0.5,0.5,0.5,0.5]". It is never applied implicitly.
package gloss
