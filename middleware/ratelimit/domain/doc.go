// Package domain define os tipos e contratos do guard de abuso: identidade do
// cliente, capacidades (tools), chaves compostas, limites e erros de admissão.
//
// Este pacote não depende de net/http nem de implementações concretas.
// Tudo aqui é puro (sem estado), o que permite testes de unidade diretos.
package domain
