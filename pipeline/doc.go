// Package pipeline supplies pipeline definitions to the polling agent.
//
// It implements the types.PipelineSource contract two ways: a static
// in-memory source for embedding and tests, and a YAML file source reading
// the classic pipeline definition format:
//
//	sources:
//	  - name: meter_source
//	    interval: 600s
//	    meters:
//	      - "cpu.util"
//	      - "!network.*"
//	    resources:
//	      - "host-1"
//	    discovery:
//	      - "instance://"
//
// Intervals accept Go duration strings ("600s", "10m") or a bare number of
// seconds for compatibility with older definition files.
package pipeline
