package cluster

import (
	"fmt"
	"log"
	"os"

	consul "github.com/hashicorp/consul/api"
)

// RegisterService registra este processo no Consul com um health check HTTP.
// Uma falha aqui é reportada ao chamador, não fatal: o registro de serviço é
// um colaborador externo e partidas ao vivo não dependem dele.
func RegisterService(client *consul.Client, serviceName string, servicePort, healthPort int) error {
	// O hostname é perfeito para criar um ID de serviço único.
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	serviceID := fmt.Sprintf("%s-%s", serviceName, hostname)

	registration := &consul.AgentServiceRegistration{
		ID:   serviceID,
		Name: serviceName,
		Port: servicePort,

		Check: &consul.AgentServiceCheck{
			// O hostname do contêiner é resolvível por DNS dentro da rede do
			// Docker Compose, então usá-lo na URL do check funciona e é legível.
			HTTP:     fmt.Sprintf("http://%s:%d/health", hostname, healthPort),
			Timeout:  "5s",
			Interval: "10s",
			// Desregistra automaticamente o serviço se ele ficar em estado
			// crítico por mais de 1 minuto.
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("falha ao registrar serviço no Consul: %w", err)
	}

	log.Printf("Serviço '%s' registrado no Consul com ID: %s", serviceName, serviceID)
	return nil
}
