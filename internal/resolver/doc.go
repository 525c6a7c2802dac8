// Package resolver turns a workflow node's parameter mappings into the
// concrete argument list for its script.
//
// Resolution is a pure function of the node, the script and the outputs
// recorded so far in the run. Arguments come out in the script's declared
// parameter order, one per parameter, already quoted for the process
// invocation.
package resolver
