// Package naming provides consistent path and label formatting for resource
// tree nodes.
//
// Node paths follow the document layout with section names joined by "/"
// and list entries addressed by their name, for example
// "Scheduling/Queues[compute]/ComputeResources[c5]". Paths are used in
// finding messages and schema errors so users can locate the offending entry.
package naming
