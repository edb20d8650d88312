// Package ratelimit fornece os adapters HTTP (net/http) do guard de abuso.
//
// Visão geral (camadas):
//
//   - domain: identidade, capabilities, chaves compostas, limites e erros (sem net/http)
//   - application: Guard, a fachada de admissão (checks, incrementos, bans, relatório)
//   - infra: tabelas concorrentes em memória, sweeper e sinks de estatística
//   - ratelimit (este pacote): middleware HTTP, extração de chave/tool, validação
//     e endpoint de limites
//
// Fluxo no gateway:
//
//  1. Extrai o IP do cliente (RemoteAddr ou X-Forwarded-For) e a tool (path)
//  2. Guard.Admit: ban, cota global do dia, cota da tool (dia e minuto)
//  3. Se bloqueado, responde 429 com Retry-After
//  4. Se a requisição for inválida, registra erro (pode virar ban) e responde 400
//  5. Caso contrário incrementa os contadores e chama o próximo handler
//
// Variáveis de ambiente do binário gateway (cmd/gateway) controlam as cotas,
// como GLOBAL_DAILY_LIMIT, TOOL_MINUTE_LIMIT e ERROR_BAN_THRESHOLD.
package ratelimit
