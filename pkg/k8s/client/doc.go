// Package client builds the Kubernetes and OpenShift API clients used by
// the exporter: the core clientset for pods and replica controllers, and
// the image, build, and route typed clients for the cluster image catalog,
// build provenance, and route traversals.
package client
