package collector

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/imagewatch/lineage-exporter/pkg/snapshot"
)

const envFieldPrefix = "env_"

// envRow renders one environment-info row for a container with declared
// environment variables. Indirectly sourced variables are rendered as a
// source descriptor, never the resolved value; secrets in particular stay
// opaque.
func envRow(pod *corev1.Pod, container *corev1.Container, owner string) snapshot.EnvRow {
	podContainer := pod.Name + "/" + container.Name
	vars := make(map[string]string, len(container.Env))
	for _, env := range container.Env {
		vars[envFieldPrefix+sanitizeLabelName(env.Name)] = renderEnvValue(env)
	}
	return snapshot.EnvRow{
		Namespace:      pod.Namespace,
		PodContainer:   podContainer,
		OwnerContainer: ownerContainerLabel(owner, podContainer, container.Name),
		Vars:           vars,
	}
}

func renderEnvValue(env corev1.EnvVar) string {
	if env.ValueFrom == nil {
		return env.Value
	}

	from := env.ValueFrom
	switch {
	case from.ConfigMapKeyRef != nil:
		return fmt.Sprintf("configmap:%s/%s", from.ConfigMapKeyRef.Name, from.ConfigMapKeyRef.Key)
	case from.FieldRef != nil:
		return "field:" + from.FieldRef.FieldPath
	case from.ResourceFieldRef != nil:
		return "resource:" + from.ResourceFieldRef.Resource
	case from.SecretKeyRef != nil:
		return fmt.Sprintf("secret:%s/%s", from.SecretKeyRef.Name, from.SecretKeyRef.Key)
	}
	return "unknown-source"
}
